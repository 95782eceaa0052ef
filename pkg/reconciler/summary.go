package reconciler

// Summary holds the derived aggregate counts of a reconciliation run. It is
// computed from the rows on demand, never stored separately.
type Summary struct {
	CountsByStatus  map[Status]int `json:"counts_by_status" yaml:"counts_by_status"`
	ChangedRows     int            `json:"changed_rows" yaml:"changed_rows"`
	AddedRows       int            `json:"added_rows" yaml:"added_rows"`
	RemovedRows     int            `json:"removed_rows" yaml:"removed_rows"`
	LocationChanges int            `json:"location_changes" yaml:"location_changes"`
	NameMismatches  int            `json:"name_mismatches" yaml:"name_mismatches"`

	// TotalQty1 and TotalQty2 are null-skipping sums across all rows, used
	// for the per-snapshot totals comparison.
	TotalQty1 int64 `json:"total_qty_1" yaml:"total_qty_1"`
	TotalQty2 int64 `json:"total_qty_2" yaml:"total_qty_2"`
}

// Summarize derives the aggregate summary from reconciliation rows.
func Summarize(rows []Row) Summary {
	s := Summary{CountsByStatus: map[Status]int{}}

	for _, row := range rows {
		s.CountsByStatus[row.Status]++
		if row.LocationChanged {
			s.LocationChanges++
		}
		if row.NameMismatch {
			s.NameMismatches++
		}
		if row.Qty1 != nil {
			s.TotalQty1 += *row.Qty1
		}
		if row.Qty2 != nil {
			s.TotalQty2 += *row.Qty2
		}
	}

	s.ChangedRows = s.CountsByStatus[StatusQtyChanged]
	s.AddedRows = s.CountsByStatus[StatusAdded]
	s.RemovedRows = s.CountsByStatus[StatusRemoved]

	return s
}
