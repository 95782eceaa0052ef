package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/reconciler"
)

func sampleRows() []reconciler.Row {
	qty1, qty2 := int64(10), int64(12)
	delta := int64(2)
	pct := 20.0
	name1, name2 := "Widget", "Widget Pro"
	loc := "A"
	return []reconciler.Row{
		{
			SKU:         "SKU-1",
			Name1:       &name1,
			Name2:       &name2,
			Location1:   &loc,
			Location2:   &loc,
			Qty1:        &qty1,
			Qty2:        &qty2,
			QtyDelta:    &delta,
			QtyDeltaPct: &pct,
			Status:      reconciler.StatusQtyChanged,
		},
		{
			SKU:       "SKU-2",
			Name1:     &name1,
			Location1: &loc,
			Qty1:      &qty1,
			Status:    reconciler.StatusRemoved,
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	rows := sampleRows()
	summary := reconciler.Summarize(rows)
	sku := "SKU-005"
	rep := New(summary, map[string][]cleaner.Issue{
		"week1": {{Source: "week1", Type: cleaner.IssueSKUFormat, SKU: &sku, Detail: "sku 005 -> SKU-005"}},
		"week2": {},
	})

	path := filepath.Join(t.TempDir(), "reconciliation_report.json")
	require.NoError(t, rep.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, rep.ID, decoded.ID)
	assert.NotEmpty(t, decoded.ID)
	assert.Equal(t, 1, decoded.Summary.ChangedRows)
	assert.Equal(t, 1, decoded.Summary.RemovedRows)
	require.Len(t, decoded.DataQuality["week1"], 1)
	assert.Equal(t, cleaner.IssueSKUFormat, decoded.DataQuality["week1"][0].Type)
}

func TestWriteYAML(t *testing.T) {
	rep := New(reconciler.Summarize(nil), map[string][]cleaner.Issue{})
	path := filepath.Join(t.TempDir(), "reconciliation_report.yaml")

	require.NoError(t, rep.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "report_id:")
	assert.Contains(t, string(data), "summary:")
}

func TestWriteItemsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconciliation_items.csv")
	require.NoError(t, WriteItemsCSV(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, itemColumns, records[0])
	assert.Equal(t, []string{
		"SKU-1", "Widget", "Widget Pro", "A", "A",
		"10", "12", "2", "20", "present_in_both_qty_changed", "false", "false",
	}, records[1])

	// Null side fields become empty cells.
	assert.Equal(t, "", records[2][2])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "only_in_snapshot_1_removed", records[2][9])
}
