// Package tabular provides the in-memory raw table representation consumed by
// the cleaning pipeline. A Table preserves column order and row order exactly
// as loaded, which the cleaner relies on for its "first occurrence"
// tie-breaks.
package tabular

import "strings"

// Row is a single raw record: column name to raw cell value. Cells are kept
// as strings until the cleaner types them.
type Row map[string]string

// Table holds one raw snapshot.
type Table struct {
	Columns []string
	Rows    []Row
}

// DefaultRenames maps known source column synonyms to canonical names. It is
// passed explicitly into Harmonize by the loading step rather than applied
// implicitly, so callers can substitute their own mapping.
var DefaultRenames = map[string]string{
	"product_name": "name",
	"qty":          "quantity",
	"warehouse":    "location",
	"updated_at":   "last_counted",
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table. Missing cells are left absent; the cleaner
// treats them as empty.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// AddColumn appends a column unless the table already has it. Existing rows
// read as empty for the new column until a value is set.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Harmonize canonicalizes column names in place: each name is trimmed and
// lower-cased, then renamed through the given mapping. Row keys are rewritten
// to match. When two source columns collapse onto the same canonical name,
// the later column wins.
func (t *Table) Harmonize(renames map[string]string) {
	canonical := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(col))
		if renamed, ok := renames[name]; ok {
			name = renamed
		}
		canonical[i] = name
	}

	for ri, row := range t.Rows {
		next := make(Row, len(row))
		for i, col := range t.Columns {
			if val, ok := row[col]; ok {
				next[canonical[i]] = val
			}
		}
		t.Rows[ri] = next
	}

	// Deduplicate collapsed columns, keeping first position in order.
	seen := make(map[string]bool, len(canonical))
	cols := canonical[:0]
	for _, name := range canonical {
		if !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	t.Columns = cols
}
