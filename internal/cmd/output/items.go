package output

import (
	"strconv"

	"github.com/agentstation/stocktake/pkg/cleaner"
	"github.com/agentstation/stocktake/pkg/reconciler"
)

// ItemsTable converts reconciliation rows to table data.
func ItemsTable(rows []reconciler.Row) Data {
	data := Data{
		Headers: []string{
			"SKU", "STATUS", "QTY 1", "QTY 2", "DELTA", "DELTA %",
			"LOCATION 1", "LOCATION 2", "FLAGS",
		},
	}

	for _, row := range rows {
		data.Rows = append(data.Rows, []string{
			row.SKU,
			string(row.Status),
			cellInt(row.Qty1),
			cellInt(row.Qty2),
			cellInt(row.QtyDelta),
			cellPct(row.QtyDeltaPct),
			cellStr(row.Location1),
			cellStr(row.Location2),
			flags(row),
		})
	}

	return data
}

// IssuesTable converts cleaning issues to table data.
func IssuesTable(issues []cleaner.Issue) Data {
	data := Data{
		Headers: []string{"SOURCE", "TYPE", "SKU", "DETAIL"},
	}

	for _, issue := range issues {
		sku := ""
		if issue.SKU != nil {
			sku = *issue.SKU
		}
		data.Rows = append(data.Rows, []string{
			issue.Source,
			string(issue.Type),
			sku,
			issue.Detail,
		})
	}

	return data
}

func flags(row reconciler.Row) string {
	switch {
	case row.NameMismatch && row.LocationChanged:
		return "name,location"
	case row.NameMismatch:
		return "name"
	case row.LocationChanged:
		return "location"
	default:
		return ""
	}
}

func cellStr(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func cellInt(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func cellPct(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 2, 64) + "%"
}
