package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// PLAYBOOK ENGINE TYPES
// ============================================================================
// The engine reads a dataset through ColumnSource and turns a ChartRequest
// into a Resolution: idle, a PlotInstruction, or a Rejection.
//
// Dependency: engine has no third-party dependencies.
// ============================================================================

// ============================================================================
// COLUMN KIND
// ============================================================================

// Kind classifies a column for chart compatibility.
type Kind int

const (
	// Quantitative columns hold numbers (histogram, trend, scatter axes).
	Quantitative Kind = iota + 1
	// Qualitative columns hold labels, categories or booleans (bar, pie).
	Qualitative
)

func (k Kind) String() string {
	switch k {
	case Quantitative:
		return "quantitative"
	case Qualitative:
		return "qualitative"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as its name in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "quantitative":
		*k = Quantitative
	case "qualitative":
		*k = Qualitative
	default:
		return fmt.Errorf("unknown column kind %q", string(b))
	}
	return nil
}

// ============================================================================
// CHART REQUEST
// ============================================================================

// ChartKind is the chart the user asked for.
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartBar       ChartKind = "bar"
	ChartScatter   ChartKind = "scatter"
	ChartPie       ChartKind = "pie"
	ChartTrend     ChartKind = "trend"
)

// ChartKinds lists every supported chart kind in menu order.
var ChartKinds = []ChartKind{ChartHistogram, ChartBar, ChartScatter, ChartPie, ChartTrend}

// ParseChartKind accepts a chart kind name case-insensitively.
// "line" is accepted as an alias for trend.
func ParseChartKind(s string) (ChartKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "line" {
		return ChartTrend, nil
	}
	for _, k := range ChartKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Label returns the menu label for a chart kind.
func (c ChartKind) Label() string {
	switch c {
	case ChartHistogram:
		return "Histogram"
	case ChartBar:
		return "Bar Chart"
	case ChartScatter:
		return "Scatter Plot"
	case ChartPie:
		return "Pie Chart"
	case ChartTrend:
		return "Trend Line"
	default:
		return string(c)
	}
}

// ChartRequest is one user interaction: a chart kind plus the selected
// columns in the order the user picked them.
type ChartRequest struct {
	Kind    ChartKind `json:"kind"`
	Columns []string  `json:"columns"`
}

// ============================================================================
// RESOLUTION — Idle | Resolved | Rejected
// ============================================================================

// Status is the terminal state of a resolve call.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"
)

// Resolution is the resolver's output.
// Exactly one of Instruction/Rejection is set unless Status is idle.
type Resolution struct {
	Status      Status           `json:"status"`
	Instruction *PlotInstruction `json:"instruction,omitempty"`
	Rejection   *Rejection       `json:"rejection,omitempty"`
}

// Idle reports whether nothing was selected.
func (r Resolution) Idle() bool { return r.Status == StatusIdle }

// Err returns the rejection as an error, or nil.
func (r Resolution) Err() error {
	if r.Rejection == nil {
		return nil
	}
	return r.Rejection
}

// RejectCode identifies why a request was rejected.
type RejectCode string

const (
	RejectUnknownChart       RejectCode = "unknown_chart"
	RejectUnknownColumn      RejectCode = "unknown_column"
	RejectColumnCount        RejectCode = "column_count"
	RejectNotNumeric         RejectCode = "not_numeric"
	RejectNotCategorical     RejectCode = "not_categorical"
	RejectNoQualifyingColumn RejectCode = "no_qualifying_column"
	RejectMissingPair        RejectCode = "missing_pair"
	RejectInvalidFilter      RejectCode = "invalid_filter"
	RejectNoDataset          RejectCode = "no_dataset"
)

// Rejection is a validation failure. It is guidance for the user, not a fault.
type Rejection struct {
	Code   RejectCode `json:"code"`
	Reason string     `json:"reason"`
}

func (r *Rejection) Error() string { return r.Reason }

// ============================================================================
// PLOT INSTRUCTION
// ============================================================================

// PlotKind is the resolved drawing, which distinguishes grouped bars from
// count bars.
type PlotKind string

const (
	PlotHistogram  PlotKind = "histogram"
	PlotBar        PlotKind = "bar"
	PlotGroupedBar PlotKind = "grouped_bar"
	PlotScatter    PlotKind = "scatter"
	PlotPie        PlotKind = "pie"
	PlotTrend      PlotKind = "trend"
)

// PlotInstruction is what the rendering collaborator draws.
// Exactly one payload is populated based on Kind.
type PlotInstruction struct {
	Kind   PlotKind `json:"kind"`
	Title  string   `json:"title"`
	XLabel string   `json:"xLabel"`
	YLabel string   `json:"yLabel"`

	Histogram  *HistogramPlot  `json:"histogram,omitempty"`
	Bar        *BarPlot        `json:"bar,omitempty"`
	GroupedBar *GroupedBarPlot `json:"groupedBar,omitempty"`
	Scatter    *ScatterPlot    `json:"scatter,omitempty"`
	Pie        *PiePlot        `json:"pie,omitempty"`
	Trend      *TrendPlot      `json:"trend,omitempty"`
}

// HistogramPlot buckets one numeric column.
type HistogramPlot struct {
	Column string    `json:"column"`
	Values []float64 `json:"values"`
	Bins   []Bin     `json:"bins"`
}

// Bin is a half-open interval [Min, Max); the last bin also includes Max.
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// BarPlot counts occurrences per distinct value of one column.
type BarPlot struct {
	Column string          `json:"column"`
	Counts []CategoryCount `json:"counts"`
}

// CategoryCount is one slice of a count chart. Share is a percentage.
type CategoryCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// GroupedBarPlot aggregates a numeric column per category.
type GroupedBarPlot struct {
	CategoryColumn string      `json:"categoryColumn"`
	NumericColumn  string      `json:"numericColumn"`
	Aggregator     string      `json:"aggregator"`
	Groups         []GroupMean `json:"groups"`
}

// GroupMean is the mean of the numeric column within one category.
type GroupMean struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// ScatterPlot pairs the first two selected columns.
type ScatterPlot struct {
	XColumn string  `json:"xColumn"`
	YColumn string  `json:"yColumn"`
	Points  []Point `json:"points"`
}

// Point is an (x, y) pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PiePlot is a count chart with percentage shares.
type PiePlot struct {
	Column string          `json:"column"`
	Counts []CategoryCount `json:"counts"`
}

// CountMap returns category -> count.
func (p *PiePlot) CountMap() map[string]int {
	m := make(map[string]int, len(p.Counts))
	for _, c := range p.Counts {
		m[c.Label] = c.Count
	}
	return m
}

// TrendPlot pairs the row index with the column value, in row order.
type TrendPlot struct {
	Column string    `json:"column"`
	Values []float64 `json:"values"`
	XAxis  string    `json:"xAxis"` // always "row_index"
	Points []Point   `json:"points"`
}

// ============================================================================
// CHART TYPES — render-ready config for JSON consumers
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. Label is set for categorical
// axes, X for continuous ones.
type ChartPoint struct {
	Label string   `json:"label,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Value float64  `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title     string     `json:"title"`
	Columns   []Column   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"totalRows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// ============================================================================
// DESCRIBE TYPES
// ============================================================================

// ColumnSummary is a per-column overview. Numeric fields apply to
// quantitative columns, Unique/Top/Freq to qualitative ones.
type ColumnSummary struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Count int    `json:"count"`

	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`

	Unique int    `json:"unique,omitempty"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq,omitempty"`
}
