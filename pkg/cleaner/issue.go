package cleaner

// IssueType identifies one of the fixed data-quality issue categories emitted
// by the cleaning pipeline.
type IssueType string

// Issue types emitted during cleaning. The string values are stable
// identifiers that appear in reports.
const (
	// IssueSKUFormat is emitted per row whose SKU was rewritten during
	// normalization, capped per snapshot.
	IssueSKUFormat IssueType = "SKU_FORMAT"

	// IssueMissingLocation aggregates rows with a null, empty, or "nan"
	// location.
	IssueMissingLocation IssueType = "MISSING_LOCATION"

	// IssueNullOrNonNumericQuantity aggregates rows whose quantity failed
	// numeric parsing.
	IssueNullOrNonNumericQuantity IssueType = "NULL_OR_NONNUMERIC_QUANTITY"

	// IssueFloatQuantity aggregates rows whose quantity parsed but was not
	// integral and was rounded.
	IssueFloatQuantity IssueType = "FLOAT_QUANTITY"

	// IssueNegativeQuantity aggregates rows with a negative quantity. The
	// values are flagged, never corrected.
	IssueNegativeQuantity IssueType = "NEGATIVE_QUANTITY"

	// IssueDroppedMissingKey aggregates rows excluded from the cleaned set
	// because their normalized SKU or location was missing.
	IssueDroppedMissingKey IssueType = "DROPPED_MISSING_KEY"

	// IssueDuplicateKey aggregates rows that shared a (sku, location) key and
	// were collapsed by summing quantities.
	IssueDuplicateKey IssueType = "DUPLICATE_KEY"
)

// Issue is an append-only observation recorded during cleaning. Issues are
// returned as data alongside the cleaned records, never logged or raised;
// the one fatal condition is the SchemaError for missing required columns.
type Issue struct {
	Source string    `json:"source" yaml:"source"`
	Type   IssueType `json:"type" yaml:"type"`
	SKU    *string   `json:"sku" yaml:"sku"`
	Detail string    `json:"detail" yaml:"detail"`
}
