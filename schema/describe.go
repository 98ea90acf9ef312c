package schema

import (
	"sort"
	"strconv"
	"time"

	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
)

// ============================================================================
// DESCRIBE — Column metadata for a generated dataset
// ============================================================================
// Pipeline per column:
//   1. Kind comes from the dataset (quantitative → measure, qualitative → dimension)
//   2. Distinct values → cardinality hint + sorted samples
//   3. Chart eligibility is probed through engine.Resolve, so it always
//      agrees with what the resolver will accept
// ============================================================================

// DescribeOptions controls description behavior.
type DescribeOptions struct {
	Name          string
	MaxSamples    int             // sample values per column (default 10)
	EngineOptions []engine.Option // forwarded to the eligibility probes
	Now           func() time.Time
}

// DefaultDescribeOptions returns sensible defaults.
func DefaultDescribeOptions() DescribeOptions {
	return DescribeOptions{
		Name:       "Synthetic sports dataset",
		MaxSamples: 10,
		Now:        time.Now,
	}
}

// Describe builds a Config for ds.
func Describe(ds *dataset.Dataset, opts ...DescribeOptions) *Config {
	opt := DefaultDescribeOptions()
	if len(opts) > 0 {
		opt = opts[0]
		if opt.MaxSamples <= 0 {
			opt.MaxSamples = 10
		}
	}

	config := &Config{
		Name:        opt.Name,
		Description: "Randomly generated player statistics.",
		Rows:        ds.Rows(),
		Columns:     ds.ColumnNames(),
		Dimensions:  []DimensionMeta{},
		Measures:    []MeasureMeta{},
	}
	if opt.Now != nil {
		config.DescribedAt = opt.Now().UTC().Format(time.RFC3339)
	}

	numeric := len(ds.MeasureKeys())
	for _, col := range ds.Columns() {
		unique, samples := distinctSamples(col, opt.MaxSamples)
		charts := eligibleCharts(ds, col, numeric, opt.EngineOptions)

		if col.Kind == engine.Quantitative {
			config.Measures = append(config.Measures, MeasureMeta{
				Key:                col.Name,
				DisplayName:        engine.LabelForColumn(col.Name),
				Unit:               col.Unit,
				Decimals:           col.Decimals,
				SampleValues:       samples,
				Unique:             unique,
				CardinalityHint:    CardinalityHint(unique),
				Aggregations:       []string{"mean", "sum", "min", "max", "count"},
				DefaultAggregation: "mean",
				Charts:             charts,
			})
			continue
		}

		config.Dimensions = append(config.Dimensions, DimensionMeta{
			Key:             col.Name,
			DisplayName:     engine.LabelForColumn(col.Name),
			SampleValues:    samples,
			Unique:          unique,
			CardinalityHint: CardinalityHint(unique),
			Groupable:       true,
			Filterable:      true,
			Charts:          charts,
		})
	}

	return config
}

// CardinalityHint buckets a distinct-value count: low (<= 10),
// medium (<= 100) or high.
func CardinalityHint(unique int) string {
	switch {
	case unique <= 10:
		return "low"
	case unique <= 100:
		return "medium"
	default:
		return "high"
	}
}

// distinctSamples returns the distinct-value count and up to maxSamples
// sorted values. Numbers sort numerically and print with the column's
// precision.
func distinctSamples(col dataset.Column, maxSamples int) (int, []string) {
	var samples []string

	if col.Kind == engine.Quantitative {
		seen := make(map[float64]bool)
		values := make([]float64, 0)
		for _, v := range col.Numbers {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Float64s(values)
		for i := 0; i < len(values) && i < maxSamples; i++ {
			samples = append(samples, strconv.FormatFloat(values[i], 'f', col.Decimals, 64))
		}
		return len(values), samples
	}

	seen := make(map[string]bool)
	for _, v := range col.Labels {
		if !seen[v] {
			seen[v] = true
			samples = append(samples, v)
		}
	}
	unique := len(samples)
	sort.Strings(samples)
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return unique, samples
}

// eligibleCharts probes the resolver with a single-column request per chart
// kind. Scatter needs a partner, so it is listed when the column is numeric
// and at least one other numeric column exists.
func eligibleCharts(ds *dataset.Dataset, col dataset.Column, numeric int, opts []engine.Option) []engine.ChartKind {
	charts := make([]engine.ChartKind, 0, len(engine.ChartKinds))
	for _, kind := range engine.ChartKinds {
		if kind == engine.ChartScatter {
			if col.Kind == engine.Quantitative && numeric >= 2 {
				charts = append(charts, kind)
			}
			continue
		}
		res := engine.Resolve(ds, engine.ChartRequest{Kind: kind, Columns: []string{col.Name}}, opts...)
		if res.Status == engine.StatusResolved {
			charts = append(charts, kind)
		}
	}
	return charts
}
