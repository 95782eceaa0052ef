// Package cleaner normalizes one raw inventory snapshot into a canonical
// record set plus a list of data-quality issues. Cleaning is a pure function
// of its input table: every corrective action is recorded as an Issue and
// processing continues, with a single fatal condition — a required column
// missing after harmonization — reported as a SchemaError.
package cleaner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agentstation/stocktake/pkg/errors"
	"github.com/agentstation/stocktake/pkg/tabular"
)

// RequiredColumns must be present in a harmonized snapshot before cleaning
// can proceed.
var RequiredColumns = []string{"sku", "quantity", "location"}

// Record is one cleaned inventory row. Within a cleaned snapshot the
// (SKU, Location) pair is unique; duplicate keys are aggregated during
// cleaning, never dropped silently.
type Record struct {
	SKU      string `json:"sku" yaml:"sku"`
	Location string `json:"location" yaml:"location"`

	// Quantity is nil when the raw value failed numeric parsing. Such rows
	// are retained and reported, not dropped.
	Quantity *int64 `json:"quantity" yaml:"quantity"`

	// Name is empty when the snapshot has no usable product name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// LastCounted is the raw timestamp text, first occurrence among
	// aggregated duplicates, or empty when absent.
	LastCounted string `json:"last_counted,omitempty" yaml:"last_counted,omitempty"`

	// Source is the caller-supplied snapshot label, e.g. "week1".
	Source string `json:"_source" yaml:"_source"`
}

// row carries per-row state through the pipeline steps.
type row struct {
	sku         string // normalized; "" means missing
	location    string
	badLocation bool
	quantity    *int64
	name        string
	lastCounted string
}

// Clean normalizes a harmonized snapshot table into cleaned records and the
// ordered list of data-quality issues observed along the way.
//
// Steps, in order: cell trimming, SKU normalization, location validation,
// quantity parsing (rounding half away from zero), negative-quantity
// flagging, key-validity filtering, and duplicate-key aggregation. Issues
// accumulate across steps and never short-circuit; the only error returned
// is a *errors.SchemaError when a required column is absent.
func Clean(t *tabular.Table, source string, opts ...Option) ([]Record, []Issue, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, errors.NewSchemaError(source, missing, t.Columns)
	}

	hasName := t.HasColumn("name")
	hasLastCounted := t.HasColumn("last_counted")

	issues := []Issue{}
	rows := make([]row, len(t.Rows))

	// Trim and normalize SKUs, recording per-row format issues up to the
	// configured cap.
	skuChanges := 0
	for i, raw := range t.Rows {
		original := strings.TrimSpace(raw["sku"])
		normalized := NormalizeSKU(original)
		rows[i].sku = normalized

		if normalized != strings.ToUpper(original) {
			skuChanges++
			if skuChanges <= cfg.skuFormatLimit {
				issues = append(issues, Issue{
					Source: source,
					Type:   IssueSKUFormat,
					SKU:    optional(normalized),
					Detail: fmt.Sprintf("%s -> %s", original, normalized),
				})
			}
		}
	}
	if truncated := skuChanges - cfg.skuFormatLimit; truncated > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueSKUFormat,
			Detail: fmt.Sprintf("%d additional sku format changes truncated", truncated),
		})
	}

	// Validate locations.
	badLocations := 0
	for i, raw := range t.Rows {
		loc := strings.TrimSpace(raw["location"])
		rows[i].location = loc
		if loc == "" || strings.EqualFold(loc, "nan") {
			rows[i].badLocation = true
			badLocations++
		}
	}
	if badLocations > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueMissingLocation,
			Detail: fmt.Sprintf("%d rows missing location", badLocations),
		})
	}

	// Parse quantities. Unparsable values stay nil; non-integral values are
	// rounded half away from zero.
	nonNumeric, floats, negatives := 0, 0, 0
	for i, raw := range t.Rows {
		text := strings.TrimSpace(raw["quantity"])
		dec, err := decimal.NewFromString(text)
		if err != nil {
			nonNumeric++
			continue
		}
		if !dec.IsInteger() {
			floats++
		}
		qty := dec.Round(0).IntPart()
		if qty < 0 {
			negatives++
		}
		rows[i].quantity = &qty
	}
	if nonNumeric > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueNullOrNonNumericQuantity,
			Detail: fmt.Sprintf("%d rows have non-numeric quantity", nonNumeric),
		})
	}
	if floats > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueFloatQuantity,
			Detail: fmt.Sprintf("%d rows have non-integer quantity (rounded)", floats),
		})
	}
	if negatives > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueNegativeQuantity,
			Detail: fmt.Sprintf("%d rows have negative quantity", negatives),
		})
	}

	// Carry descriptive fields.
	for i, raw := range t.Rows {
		if hasName {
			rows[i].name = strings.TrimSpace(raw["name"])
		}
		if hasLastCounted {
			rows[i].lastCounted = strings.TrimSpace(raw["last_counted"])
		}
	}

	// Drop rows with no usable key. Runs after normalization so issues for
	// dropped rows are still visible above.
	kept := rows[:0]
	dropped := 0
	for _, r := range rows {
		if r.sku == "" || r.badLocation {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueDroppedMissingKey,
			Detail: fmt.Sprintf("Dropped %d rows missing sku/location", dropped),
		})
	}

	records, duplicates := aggregate(kept, source, hasLastCounted)
	if duplicates > 0 {
		issues = append(issues, Issue{
			Source: source,
			Type:   IssueDuplicateKey,
			Detail: fmt.Sprintf("%d rows have duplicate (sku,location); aggregated by sum", duplicates),
		})
	}

	return records, issues, nil
}

// group accumulates rows sharing a (sku, location) key, preserving first
// occurrence order for the tie-broken fields.
type group struct {
	first row
	sum   int64
	summe bool // any non-nil quantity seen
	count int
}

// aggregate collapses duplicate (sku, location) keys into single records via
// an ordered fold over the surviving rows, so "first occurrence" follows the
// original row order. It returns the cleaned records and the number of rows
// that belonged to duplicated keys.
func aggregate(rows []row, source string, hasLastCounted bool) ([]Record, int) {
	type key struct{ sku, location string }

	order := make([]key, 0, len(rows))
	groups := make(map[key]*group, len(rows))

	for _, r := range rows {
		k := key{r.sku, r.location}
		g, ok := groups[k]
		if !ok {
			g = &group{first: r}
			groups[k] = g
			order = append(order, k)
		}
		g.count++
		if r.quantity != nil {
			g.sum += *r.quantity
			g.summe = true
		}
	}

	duplicates := 0
	anyDuplicate := false
	for _, g := range groups {
		if g.count > 1 {
			duplicates += g.count
			anyDuplicate = true
		}
	}

	records := make([]Record, 0, len(order))
	for _, k := range order {
		g := groups[k]
		rec := Record{
			SKU:      k.sku,
			Location: k.location,
			Name:     g.first.name,
			Source:   source,
		}
		if g.summe {
			sum := g.sum
			rec.Quantity = &sum
		}
		switch {
		case hasLastCounted:
			rec.LastCounted = g.first.lastCounted
		case anyDuplicate:
			// No last_counted column to pick a first value from; the
			// aggregation falls back to the sku itself.
			rec.LastCounted = k.sku
		}
		records = append(records, rec)
	}

	return records, duplicates
}

// optional converts the cleaner's ""-means-missing convention to a nullable
// string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
