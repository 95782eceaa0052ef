package reconciler

// Option is a functional option for configuring reconciliation.
type Option func(*options)

type options struct {
	aggregateBySKU bool
}

func defaultOptions() *options {
	return &options{}
}

// WithAggregateBySKU collapses each snapshot to a single row per SKU before
// joining, summing quantities across locations. This avoids the row
// multiplication a sku-only outer join produces when a SKU is stocked at
// several locations, at the cost of losing per-location detail.
func WithAggregateBySKU() Option {
	return func(o *options) {
		o.aggregateBySKU = true
	}
}
