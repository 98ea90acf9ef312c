package engine

import (
	"fmt"

	"github.com/spektr-org/playbook/logx"
)

// ============================================================================
// RESOLVER — ChartRequest → Idle | PlotInstruction | Rejection
// ============================================================================
// Entry point: Resolve(source, request, opts...)
//
// Pipeline:
//   1. Empty selection → Idle (for every chart kind)
//   2. Unknown chart kind or column name → Rejected
//   3. Per-kind validation → Rejected with guidance
//   4. Per-kind derivation → Resolved PlotInstruction
//
// Resolve is pure: the same source and request always give the same result.
// ============================================================================

// Resolve validates a chart request against the dataset and derives the
// plot instruction, or the reason the request cannot be drawn.
func Resolve(src ColumnSource, req ChartRequest, opts ...Option) Resolution {
	if len(req.Columns) == 0 {
		return Resolution{Status: StatusIdle}
	}
	cfg := applyOptions(opts)

	switch req.Kind {
	case ChartHistogram, ChartBar, ChartScatter, ChartPie, ChartTrend:
	default:
		return reject(RejectUnknownChart, fmt.Sprintf("Unknown chart type %q.", string(req.Kind)))
	}

	kinds := make([]Kind, len(req.Columns))
	for i, name := range req.Columns {
		k, ok := src.ColumnKind(name)
		if !ok {
			return reject(RejectUnknownColumn, fmt.Sprintf("Column %q is not in the current dataset.", name))
		}
		kinds[i] = k
	}

	r := &resolver{src: src, cfg: cfg, cols: req.Columns, kinds: kinds}

	var res Resolution
	switch req.Kind {
	case ChartHistogram:
		res = r.histogram()
	case ChartBar:
		res = r.bar()
	case ChartScatter:
		res = r.scatter()
	case ChartPie:
		res = r.pie()
	case ChartTrend:
		res = r.trend()
	}

	if res.Rejection != nil {
		logx.Debugf("🚫 Playbook: %s %v rejected (%s)", req.Kind, req.Columns, res.Rejection.Code)
	} else {
		logx.Debugf("📊 Playbook: %s %v resolved to %s over %d rows", req.Kind, req.Columns, res.Instruction.Kind, src.Len())
	}
	return res
}

type resolver struct {
	src   ColumnSource
	cfg   *config
	cols  []string
	kinds []Kind
}

func reject(code RejectCode, reason string) Resolution {
	return Resolution{
		Status:    StatusRejected,
		Rejection: &Rejection{Code: code, Reason: reason},
	}
}

func resolved(instr *PlotInstruction) Resolution {
	return Resolution{Status: StatusResolved, Instruction: instr}
}

// ============================================================================
// HISTOGRAM
// ============================================================================

func (r *resolver) histogram() Resolution {
	if len(r.cols) != 1 {
		return reject(RejectColumnCount, "Select exactly one column for a histogram.")
	}
	col := r.cols[0]
	if r.kinds[0] != Quantitative {
		return reject(RejectNotNumeric, "A histogram needs a numeric column.")
	}

	values := MeasureValues(r.src, col)
	return resolved(&PlotInstruction{
		Kind:   PlotHistogram,
		Title:  "Distribution of " + col,
		XLabel: col,
		YLabel: "Frequency",
		Histogram: &HistogramPlot{
			Column: col,
			Values: values,
			Bins:   HistogramBins(values, r.cfg.HistogramBins),
		},
	})
}

// ============================================================================
// BAR — count of one column, or mean of a numeric column per category
// ============================================================================

func (r *resolver) bar() Resolution {
	if len(r.cols) == 1 {
		return r.countBar()
	}
	return r.groupedBar()
}

func (r *resolver) countBar() Resolution {
	col, kind := r.cols[0], r.kinds[0]
	if kind != Qualitative && DistinctCount(r.src, col, kind) >= r.cfg.CategoryLimit {
		return reject(RejectNoQualifyingColumn, fmt.Sprintf(
			"A count bar chart needs a categorical column or a numeric column with fewer than %d distinct values.",
			r.cfg.CategoryLimit))
	}

	return resolved(&PlotInstruction{
		Kind:   PlotBar,
		Title:  "Count of " + col,
		XLabel: col,
		YLabel: "Count",
		Bar: &BarPlot{
			Column: col,
			Counts: CountValues(r.src, col, kind),
		},
	})
}

// groupedBar scans the selection once, in the user's order, capturing the
// first numeric and the first categorical column. Later columns are ignored.
func (r *resolver) groupedBar() Resolution {
	numeric, categorical := -1, -1
	for i, k := range r.kinds {
		if k == Quantitative && numeric < 0 {
			numeric = i
		} else if k == Qualitative && categorical < 0 {
			categorical = i
		}
		if numeric >= 0 && categorical >= 0 {
			break
		}
	}
	if numeric < 0 || categorical < 0 {
		return reject(RejectMissingPair, "A grouped bar chart needs at least one numeric and one categorical column.")
	}

	num, cat := r.cols[numeric], r.cols[categorical]
	return resolved(&PlotInstruction{
		Kind:   PlotGroupedBar,
		Title:  fmt.Sprintf("Mean of %s by %s", num, cat),
		XLabel: cat,
		YLabel: "Mean of " + num,
		GroupedBar: &GroupedBarPlot{
			CategoryColumn: cat,
			NumericColumn:  num,
			Aggregator:     "mean",
			Groups:         GroupMeans(r.src, cat, num),
		},
	})
}

// ============================================================================
// SCATTER
// ============================================================================

func (r *resolver) scatter() Resolution {
	if len(r.cols) < 2 {
		return reject(RejectColumnCount, "Select at least two columns for a scatter plot.")
	}
	if r.kinds[0] != Quantitative || r.kinds[1] != Quantitative {
		return reject(RejectNotNumeric, "A scatter plot needs the first two selected columns to be numeric.")
	}

	x, y := r.cols[0], r.cols[1]
	points := make([]Point, r.src.Len())
	for i := range points {
		points[i] = Point{X: r.src.Measure(i, x), Y: r.src.Measure(i, y)}
	}
	return resolved(&PlotInstruction{
		Kind:   PlotScatter,
		Title:  fmt.Sprintf("Relationship between %s and %s", x, y),
		XLabel: x,
		YLabel: y,
		Scatter: &ScatterPlot{
			XColumn: x,
			YColumn: y,
			Points:  points,
		},
	})
}

// ============================================================================
// PIE
// ============================================================================

func (r *resolver) pie() Resolution {
	if len(r.cols) != 1 {
		return reject(RejectColumnCount, "Select exactly one categorical column for a pie chart.")
	}
	col, kind := r.cols[0], r.kinds[0]
	if kind != Qualitative || DistinctCount(r.src, col, kind) >= r.cfg.CategoryLimit {
		return reject(RejectNotCategorical, fmt.Sprintf(
			"A pie chart needs a categorical column with fewer than %d categories.", r.cfg.CategoryLimit))
	}

	return resolved(&PlotInstruction{
		Kind:  PlotPie,
		Title: "Distribution of " + col,
		Pie: &PiePlot{
			Column: col,
			Counts: CountValues(r.src, col, kind),
		},
	})
}

// ============================================================================
// TREND
// ============================================================================

func (r *resolver) trend() Resolution {
	if len(r.cols) != 1 {
		return reject(RejectColumnCount, "Select exactly one column for a trend line.")
	}
	col := r.cols[0]
	if r.kinds[0] != Quantitative {
		return reject(RejectNotNumeric, "A trend line needs a numeric column.")
	}

	values := MeasureValues(r.src, col)
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{X: float64(i), Y: v}
	}
	return resolved(&PlotInstruction{
		Kind:   PlotTrend,
		Title:  fmt.Sprintf("Trend of %s across samples", col),
		XLabel: "Sample Index",
		YLabel: col,
		Trend: &TrendPlot{
			Column: col,
			Values: values,
			XAxis:  "row_index",
			Points: points,
		},
	})
}
