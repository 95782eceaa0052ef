// Package report assembles and persists the reconciliation artifacts: the
// row-oriented items CSV and the structured summary report with the
// per-snapshot data-quality issues.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/errors"
	"github.com/agentstation/stocktake/pkg/reconciler"
)

// itemColumns is the column order of the items CSV, kept stable for
// downstream consumers.
var itemColumns = []string{
	"sku",
	"name_1", "name_2",
	"location_1", "location_2",
	"qty_1", "qty_2",
	"qty_delta", "qty_delta_pct",
	"status",
	"name_mismatch", "location_changed",
}

// Report is the structured reconciliation report.
type Report struct {
	ID          string                     `json:"report_id" yaml:"report_id"`
	GeneratedAt time.Time                  `json:"generated_at" yaml:"generated_at"`
	Summary     reconciler.Summary         `json:"summary" yaml:"summary"`
	DataQuality map[string][]cleaner.Issue `json:"data_quality" yaml:"data_quality"`
}

// New builds a report from a reconciliation summary and the cleaning issues
// keyed by snapshot label.
func New(summary reconciler.Summary, issues map[string][]cleaner.Issue) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		DataQuality: issues,
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return errors.WrapIO("write", path, os.WriteFile(path, append(data, '\n'), 0o644))
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.MarshalWithOptions(r,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, 0o644))
}

// WriteItemsCSV writes the reconciliation table in its stable column order.
// Null fields become empty cells.
func WriteItemsCSV(path string, rows []reconciler.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(itemColumns); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for _, row := range rows {
		record := []string{
			row.SKU,
			str(row.Name1), str(row.Name2),
			str(row.Location1), str(row.Location2),
			num(row.Qty1), num(row.Qty2),
			num(row.QtyDelta), pct(row.QtyDeltaPct),
			string(row.Status),
			strconv.FormatBool(row.NameMismatch),
			strconv.FormatBool(row.LocationChanged),
		}
		if err := w.Write(record); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	w.Flush()
	return errors.WrapIO("write", path, w.Error())
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func pct(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
