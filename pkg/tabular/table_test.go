package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonizeRenamesColumnsAndRowKeys(t *testing.T) {
	table := New(" SKU ", "Qty", "Warehouse", "product_name", "updated_at")
	table.Append(Row{
		" SKU ":        "sku 005",
		"Qty":          "3",
		"Warehouse":    "A",
		"product_name": "Widget",
		"updated_at":   "2026-01-05",
	})

	table.Harmonize(DefaultRenames)

	assert.Equal(t, []string{"sku", "quantity", "location", "name", "last_counted"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "3", table.Rows[0]["quantity"])
	assert.Equal(t, "A", table.Rows[0]["location"])
	assert.Equal(t, "Widget", table.Rows[0]["name"])
}

func TestHarmonizeCollapsedColumnsKeepFirstPosition(t *testing.T) {
	table := New("qty", "quantity")
	table.Append(Row{"qty": "1", "quantity": "2"})

	table.Harmonize(DefaultRenames)

	assert.Equal(t, []string{"quantity"}, table.Columns)
	// Later source column wins the cell value.
	assert.Equal(t, "2", table.Rows[0]["quantity"])
}

func TestHasColumn(t *testing.T) {
	table := New("sku", "quantity")
	assert.True(t, table.HasColumn("sku"))
	assert.False(t, table.HasColumn("location"))
}

func TestAddColumn(t *testing.T) {
	table := New("sku", "quantity")
	table.Append(Row{"sku": "SKU-1", "quantity": "5"})

	table.AddColumn("location")
	assert.Equal(t, []string{"sku", "quantity", "location"}, table.Columns)
	// Existing rows read as empty for the new column.
	assert.Equal(t, "", table.Rows[0]["location"])

	// Adding an existing column is a no-op.
	table.AddColumn("sku")
	assert.Equal(t, []string{"sku", "quantity", "location"}, table.Columns)
}
