// Package tabular loads raw snapshot files from disk into the in-memory
// table representation the cleaner consumes. Column names are taken as-is;
// harmonization is applied by the caller with an explicit rename mapping.
package tabular

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/stocktake/pkg/errors"
	"github.com/agentstation/stocktake/pkg/tabular"
)

// Load reads a snapshot file, dispatching on the file extension. CSV and
// XLSX are supported.
func Load(path string) (*tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, errors.NewParseError("snapshot", path,
			"unsupported file extension, want .csv or .xlsx", errors.ErrUnsupportedFormat)
	}
}

// LoadCSV reads a CSV file whose first row is the header. Short rows are
// padded with empty cells; long rows keep only the header's columns.
func LoadCSV(path string) (*tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("csv", path, "file has no header row", nil)
	}

	return fromCells(rows[0], rows[1:]), nil
}

// LoadXLSX reads the first sheet of an XLSX workbook, first row as header.
func LoadXLSX(path string) (*tabular.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError("xlsx", path, "workbook has no sheets", nil)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if len(cells) == 0 {
		return nil, errors.NewParseError("xlsx", path, "sheet has no header row", nil)
	}

	return fromCells(cells[0], cells[1:]), nil
}

// fromCells builds a table from a header row and data rows.
func fromCells(header []string, data [][]string) *tabular.Table {
	table := tabular.New(header...)
	for _, cells := range data {
		row := make(tabular.Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		table.Append(row)
	}
	return table
}
