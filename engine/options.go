package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Resolve()
// ============================================================================

// DefaultCategoryLimit is the distinct-value count below which a column
// qualifies for count charts.
const DefaultCategoryLimit = 20

// Option configures resolver behavior via functional options pattern.
type Option func(*config)

type config struct {
	CategoryLimit int // bar/pie need fewer distinct values than this
	HistogramBins int // 0 = Sturges' rule
}

// WithCategoryLimit overrides the distinct-value threshold for bar and pie.
// Values below 1 keep the default.
func WithCategoryLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.CategoryLimit = n
		}
	}
}

// WithHistogramBins fixes the histogram bucket count. 0 selects Sturges' rule.
func WithHistogramBins(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.HistogramBins = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		CategoryLimit: DefaultCategoryLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
