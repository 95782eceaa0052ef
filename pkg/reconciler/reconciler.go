// Package reconciler compares two cleaned inventory snapshots and produces a
// deterministic per-SKU diff report. It performs a full outer join keyed on
// SKU alone, classifies each joined row's change status, computes quantity
// deltas, and flags secondary name and location mismatches.
package reconciler

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/stocktake/pkg/cleaner"
)

// Status classifies one reconciliation row. The literal values sort
// lexically into a meaningful grouping, which the output ordering relies on.
type Status string

// The fixed status enumeration.
const (
	StatusUnchanged  Status = "present_in_both_unchanged"
	StatusQtyChanged Status = "present_in_both_qty_changed"
	StatusRemoved    Status = "only_in_snapshot_1_removed"
	StatusAdded      Status = "only_in_snapshot_2_added"
)

// Row is one line of the reconciliation report: a SKU present in either
// snapshot with its paired attributes. Pointer fields are nil when the SKU
// is absent from that snapshot (or, for quantities, when the cleaned value
// was null).
type Row struct {
	SKU       string  `json:"sku" yaml:"sku"`
	Name1     *string `json:"name_1" yaml:"name_1"`
	Name2     *string `json:"name_2" yaml:"name_2"`
	Location1 *string `json:"location_1" yaml:"location_1"`
	Location2 *string `json:"location_2" yaml:"location_2"`
	Qty1      *int64  `json:"qty_1" yaml:"qty_1"`
	Qty2      *int64  `json:"qty_2" yaml:"qty_2"`

	// QtyDelta is qty_2 - qty_1, nil when either side is nil.
	QtyDelta *int64 `json:"qty_delta" yaml:"qty_delta"`

	// QtyDeltaPct is the delta as a percentage of qty_1, rounded to two
	// decimals. Only computed when qty_1 is present and non-zero.
	QtyDeltaPct *float64 `json:"qty_delta_pct" yaml:"qty_delta_pct"`

	Status Status `json:"status" yaml:"status"`

	// NameMismatch and LocationChanged are meaningful only when the SKU is
	// present in both snapshots; otherwise they stay false.
	NameMismatch    bool `json:"name_mismatch" yaml:"name_mismatch"`
	LocationChanged bool `json:"location_changed" yaml:"location_changed"`
}

// caseFolder backs the caseless name comparison.
var caseFolder = cases.Fold()

// Reconcile joins two cleaned snapshots on SKU and classifies every joined
// row. When a SKU appears at multiple locations within one snapshot the join
// emits the cross product of that SKU's records, matching the per-(sku,
// location) granularity of the cleaned input; use WithAggregateBySKU to
// collapse each side to one row per SKU first.
//
// Output is stable-sorted by (status, sku) ascending and is deterministic
// given the cleaner's deterministic record order.
func Reconcile(snap1, snap2 []cleaner.Record, opts ...Option) []Row {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.aggregateBySKU {
		snap1 = aggregateBySKU(snap1)
		snap2 = aggregateBySKU(snap2)
	}

	left := groupBySKU(snap1)
	right := groupBySKU(snap2)

	rows := []Row{}
	for _, sku := range unionSKUs(snap1, snap2) {
		l, r := left[sku], right[sku]
		switch {
		case len(l) > 0 && len(r) > 0:
			for _, lr := range l {
				for _, rr := range r {
					rows = append(rows, joinBoth(sku, lr, rr))
				}
			}
		case len(l) > 0:
			for _, lr := range l {
				rows = append(rows, joinLeftOnly(sku, lr))
			}
		default:
			for _, rr := range r {
				rows = append(rows, joinRightOnly(sku, rr))
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Status != rows[j].Status {
			return rows[i].Status < rows[j].Status
		}
		return rows[i].SKU < rows[j].SKU
	})

	return rows
}

// joinBoth builds the row for a SKU present in both snapshots.
func joinBoth(sku string, l, r cleaner.Record) Row {
	row := Row{
		SKU:       sku,
		Name1:     optional(l.Name),
		Name2:     optional(r.Name),
		Location1: optional(l.Location),
		Location2: optional(r.Location),
		Qty1:      l.Quantity,
		Qty2:      r.Quantity,
	}

	if l.Quantity != nil && r.Quantity != nil {
		delta := *r.Quantity - *l.Quantity
		row.QtyDelta = &delta
		if *l.Quantity != 0 {
			pct := round2(float64(delta) / float64(*l.Quantity) * 100)
			row.QtyDeltaPct = &pct
		}
		if delta == 0 {
			row.Status = StatusUnchanged
		} else {
			row.Status = StatusQtyChanged
		}
	} else {
		// A null on either side counts as a quantity change.
		row.Status = StatusQtyChanged
	}

	if l.Name != "" && r.Name != "" {
		n1 := caseFolder.String(strings.TrimSpace(l.Name))
		n2 := caseFolder.String(strings.TrimSpace(r.Name))
		row.NameMismatch = n1 != n2
	}
	row.LocationChanged = l.Location != r.Location

	return row
}

func joinLeftOnly(sku string, l cleaner.Record) Row {
	return Row{
		SKU:       sku,
		Name1:     optional(l.Name),
		Location1: optional(l.Location),
		Qty1:      l.Quantity,
		Status:    StatusRemoved,
	}
}

func joinRightOnly(sku string, r cleaner.Record) Row {
	return Row{
		SKU:       sku,
		Name2:     optional(r.Name),
		Location2: optional(r.Location),
		Qty2:      r.Quantity,
		Status:    StatusAdded,
	}
}

// groupBySKU indexes records by SKU, preserving record order per SKU.
func groupBySKU(records []cleaner.Record) map[string][]cleaner.Record {
	grouped := make(map[string][]cleaner.Record, len(records))
	for _, rec := range records {
		grouped[rec.SKU] = append(grouped[rec.SKU], rec)
	}
	return grouped
}

// unionSKUs returns the distinct SKUs of both snapshots in first-seen order,
// snapshot 1 first. The final sort makes output order independent of this,
// but a deterministic walk keeps equal-key ties stable.
func unionSKUs(snap1, snap2 []cleaner.Record) []string {
	seen := map[string]bool{}
	skus := []string{}
	for _, rec := range snap1 {
		if !seen[rec.SKU] {
			seen[rec.SKU] = true
			skus = append(skus, rec.SKU)
		}
	}
	for _, rec := range snap2 {
		if !seen[rec.SKU] {
			seen[rec.SKU] = true
			skus = append(skus, rec.SKU)
		}
	}
	return skus
}

// aggregateBySKU collapses a snapshot to one record per SKU: quantities are
// summed null-skipping (staying null only when every value is null), and
// name and location take the first occurrence in record order.
func aggregateBySKU(records []cleaner.Record) []cleaner.Record {
	type agg struct {
		rec    cleaner.Record
		sum    int64
		summed bool
	}

	order := []string{}
	groups := map[string]*agg{}
	for _, rec := range records {
		g, ok := groups[rec.SKU]
		if !ok {
			g = &agg{rec: rec}
			groups[rec.SKU] = g
			order = append(order, rec.SKU)
		}
		if rec.Quantity != nil {
			g.sum += *rec.Quantity
			g.summed = true
		}
	}

	out := make([]cleaner.Record, 0, len(order))
	for _, sku := range order {
		g := groups[sku]
		rec := g.rec
		if g.summed {
			sum := g.sum
			rec.Quantity = &sum
		} else {
			rec.Quantity = nil
		}
		out = append(out, rec)
	}
	return out
}

// round2 rounds to two decimal places, half away from zero.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// optional converts the cleaner's ""-means-missing convention to a nullable
// string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
