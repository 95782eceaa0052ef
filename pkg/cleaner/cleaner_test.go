package cleaner_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/errors"
	"github.com/agentstation/stocktake/pkg/tabular"
)

func snapshot(columns []string, rows ...tabular.Row) *tabular.Table {
	t := tabular.New(columns...)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func issueTypes(issues []cleaner.Issue) map[cleaner.IssueType]int {
	types := map[cleaner.IssueType]int{}
	for _, i := range issues {
		types[i.Type]++
	}
	return types
}

func TestCleanMissingRequiredColumn(t *testing.T) {
	table := snapshot([]string{"sku", "quantity"},
		tabular.Row{"sku": "SKU-1", "quantity": "1"},
	)

	_, _, err := cleaner.Clean(table, "week1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing required columns")
	assert.Contains(t, err.Error(), "week1")
	assert.True(t, errors.IsSchemaError(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"location"}, schemaErr.Missing)
	assert.Equal(t, []string{"sku", "quantity"}, schemaErr.Found)
}

func TestCleanDropsRowsMissingSKUOrLocation(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location", "name"},
		tabular.Row{"sku": "SKU-1", "quantity": "5", "location": "A", "name": "n1"},
		tabular.Row{"sku": "", "quantity": "2", "location": "B", "name": "n2"},
		tabular.Row{"sku": "SKU-3", "quantity": "1", "location": "", "name": "n3"},
		tabular.Row{"sku": "SKU-4", "quantity": "1", "location": "nan", "name": "n4"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "SKU-1", records[0].SKU)
	assert.Equal(t, "A", records[0].Location)
	assert.Equal(t, "week1", records[0].Source)

	types := issueTypes(issues)
	assert.Equal(t, 1, types[cleaner.IssueDroppedMissingKey])
	assert.Equal(t, 1, types[cleaner.IssueMissingLocation])

	for _, issue := range issues {
		if issue.Type == cleaner.IssueDroppedMissingKey {
			assert.Contains(t, issue.Detail, "Dropped 3 rows")
		}
	}
}

func TestCleanFlagsNonNumericQuantity(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "SKU-1", "quantity": "10", "location": "A"},
		tabular.Row{"sku": "SKU-2", "quantity": "oops", "location": "A"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	nulls := 0
	for _, rec := range records {
		if rec.Quantity == nil {
			nulls++
		}
	}
	assert.Equal(t, 1, nulls)
	assert.Equal(t, 1, issueTypes(issues)[cleaner.IssueNullOrNonNumericQuantity])
}

func TestCleanRoundsFloatQuantitiesHalfAwayFromZero(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "SKU-1", "quantity": "1.2", "location": "A"},
		tabular.Row{"sku": "SKU-2", "quantity": "2.7", "location": "A"},
		tabular.Row{"sku": "SKU-3", "quantity": "2.5", "location": "A"},
		tabular.Row{"sku": "SKU-4", "quantity": "-2.5", "location": "A"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)
	require.Len(t, records, 4)

	want := map[string]int64{"SKU-1": 1, "SKU-2": 3, "SKU-3": 3, "SKU-4": -3}
	for _, rec := range records {
		require.NotNil(t, rec.Quantity, rec.SKU)
		assert.Equal(t, want[rec.SKU], *rec.Quantity, rec.SKU)
	}

	assert.Equal(t, 1, issueTypes(issues)[cleaner.IssueFloatQuantity])
}

func TestCleanFlagsNegativeQuantityWithoutCorrecting(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "SKU-1", "quantity": "-5", "location": "A"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	require.Len(t, records, 1)
	require.NotNil(t, records[0].Quantity)
	assert.Equal(t, int64(-5), *records[0].Quantity)
	assert.Equal(t, 1, issueTypes(issues)[cleaner.IssueNegativeQuantity])
}

func TestCleanAggregatesDuplicateKeysBySum(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location", "name"},
		tabular.Row{"sku": "SKU-1", "quantity": "3", "location": "A", "name": "n1"},
		tabular.Row{"sku": "SKU-1", "quantity": "4", "location": "A", "name": "n1_alt"},
		tabular.Row{"sku": "SKU-2", "quantity": "1", "location": "B", "name": "n2"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	require.Len(t, records, 2)
	require.Equal(t, "SKU-1", records[0].SKU)
	require.NotNil(t, records[0].Quantity)
	assert.Equal(t, int64(7), *records[0].Quantity)
	// First occurrence wins for descriptive fields.
	assert.Equal(t, "n1", records[0].Name)

	assert.Equal(t, 1, issueTypes(issues)[cleaner.IssueDuplicateKey])
	for _, issue := range issues {
		if issue.Type == cleaner.IssueDuplicateKey {
			assert.Contains(t, issue.Detail, "2 rows")
		}
	}
}

func TestCleanKeyUniqueness(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "sku 005", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "SKU_005", "quantity": "2", "location": "A"},
		tabular.Row{"sku": "SKU005", "quantity": "3", "location": "B"},
		tabular.Row{"sku": "SKU-005", "quantity": "4", "location": "B"},
	)

	records, _, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, rec := range records {
		key := rec.SKU + "|" + rec.Location
		assert.False(t, seen[key], "duplicate key %s survived cleaning", key)
		seen[key] = true
	}
	require.Len(t, records, 2)
}

func TestCleanRecordsSKUFormatChanges(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "sku 005", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "SKU_006", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "SKU-007", "quantity": "1", "location": "A"},
	)

	records, issues, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	skus := map[string]bool{}
	for _, rec := range records {
		skus[rec.SKU] = true
	}
	assert.Equal(t, map[string]bool{"SKU-005": true, "SKU-006": true, "SKU-007": true}, skus)

	formatIssues := []cleaner.Issue{}
	for _, issue := range issues {
		if issue.Type == cleaner.IssueSKUFormat {
			formatIssues = append(formatIssues, issue)
		}
	}
	require.Len(t, formatIssues, 2)
	assert.Equal(t, "sku 005 -> SKU-005", formatIssues[0].Detail)
	require.NotNil(t, formatIssues[0].SKU)
	assert.Equal(t, "SKU-005", *formatIssues[0].SKU)
}

func TestCleanSKUFormatIssueCap(t *testing.T) {
	columns := []string{"sku", "quantity", "location"}
	table := tabular.New(columns...)
	for i := 0; i < 10; i++ {
		table.Append(tabular.Row{
			"sku":      fmt.Sprintf("sku %03d", i),
			"quantity": "1",
			"location": "A",
		})
	}

	_, issues, err := cleaner.Clean(table, "week1", cleaner.WithSKUFormatIssueLimit(3))
	require.NoError(t, err)

	formatIssues := 0
	var truncation *cleaner.Issue
	for i, issue := range issues {
		if issue.Type == cleaner.IssueSKUFormat {
			formatIssues++
			if issue.SKU == nil {
				truncation = &issues[i]
			}
		}
	}

	// 3 per-row issues plus one trailing truncation summary.
	assert.Equal(t, 4, formatIssues)
	require.NotNil(t, truncation)
	assert.Contains(t, truncation.Detail, "7 additional")
}

func TestCleanNullSKUTokensAreDropped(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "none", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "NaN", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "null", "quantity": "1", "location": "A"},
		tabular.Row{"sku": "SKU-1", "quantity": "1", "location": "A"},
	)

	records, issues, err := cleaner.Clean(table, "week2")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "SKU-1", records[0].SKU)
	assert.Equal(t, 1, issueTypes(issues)[cleaner.IssueDroppedMissingKey])
}

func TestCleanDuplicateAggregationSkipsNilQuantities(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location"},
		tabular.Row{"sku": "SKU-1", "quantity": "3", "location": "A"},
		tabular.Row{"sku": "SKU-1", "quantity": "oops", "location": "A"},
		tabular.Row{"sku": "SKU-2", "quantity": "x", "location": "B"},
		tabular.Row{"sku": "SKU-2", "quantity": "y", "location": "B"},
	)

	records, _, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].Quantity)
	assert.Equal(t, int64(3), *records[0].Quantity)
	// All quantities unparsable: the aggregate stays null.
	assert.Nil(t, records[1].Quantity)
}

func TestCleanLastCountedFirstOccurrence(t *testing.T) {
	table := snapshot([]string{"sku", "quantity", "location", "last_counted"},
		tabular.Row{"sku": "SKU-1", "quantity": "1", "location": "A", "last_counted": "2026-01-05"},
		tabular.Row{"sku": "SKU-1", "quantity": "2", "location": "A", "last_counted": "2026-01-12"},
	)

	records, _, err := cleaner.Clean(table, "week1")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "2026-01-05", records[0].LastCounted)
}
