package cleaner

// DefaultSKUFormatIssueLimit caps how many per-row SKU_FORMAT issues a single
// snapshot may emit. Changes beyond the cap are summarized in one trailing
// aggregate issue so large dirty feeds cannot balloon the report.
const DefaultSKUFormatIssueLimit = 200

// Option is a functional option for configuring the cleaning pipeline.
type Option func(*options)

type options struct {
	skuFormatLimit int
}

func defaultOptions() *options {
	return &options{
		skuFormatLimit: DefaultSKUFormatIssueLimit,
	}
}

// WithSKUFormatIssueLimit overrides the per-snapshot cap on per-row
// SKU_FORMAT issues.
func WithSKUFormatIssueLimit(limit int) Option {
	return func(o *options) {
		o.skuFormatLimit = limit
	}
}
