package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a PlotInstruction
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a render-ready ChartConfig from a resolved instruction.
func BuildChart(instr *PlotInstruction) *ChartConfig {
	if instr == nil {
		return nil
	}

	config := &ChartConfig{
		Title:      instr.Title,
		XAxis:      instr.XLabel,
		YAxis:      instr.YLabel,
		ShowLegend: true,
		ShowGrid:   true,
	}

	switch instr.Kind {
	case PlotHistogram:
		config.ChartType = "histogram"
		config.ShowLegend = false
		config.Series = []ChartSeries{{Name: instr.Histogram.Column, Data: binPoints(instr.Histogram.Bins)}}

	case PlotBar:
		config.ChartType = "bar"
		config.ShowLegend = false
		config.Series = []ChartSeries{{Name: "Count", Data: countPoints(instr.Bar.Counts)}}

	case PlotGroupedBar:
		config.ChartType = "bar"
		gb := instr.GroupedBar
		points := make([]ChartPoint, 0, len(gb.Groups))
		for _, g := range gb.Groups {
			points = append(points, ChartPoint{Label: g.Category, Value: RoundTo2(g.Mean)})
		}
		config.Series = []ChartSeries{{
			Name: fmt.Sprintf("%s of %s", LabelForAggregation(gb.Aggregator), gb.NumericColumn),
			Data: points,
		}}

	case PlotScatter:
		config.ChartType = "scatter"
		config.Series = []ChartSeries{{
			Name: fmt.Sprintf("%s vs %s", instr.Scatter.YColumn, instr.Scatter.XColumn),
			Data: xyPoints(instr.Scatter.Points),
		}}

	case PlotPie:
		config.ChartType = "pie"
		config.ShowGrid = false
		config.Series = []ChartSeries{{Name: instr.Pie.Column, Data: countPoints(instr.Pie.Counts)}}
		config.Colors = assignColors(len(instr.Pie.Counts))
		return config

	case PlotTrend:
		config.ChartType = "line"
		config.Series = []ChartSeries{{Name: instr.Trend.Column, Data: xyPoints(instr.Trend.Points)}}

	default:
		return nil
	}

	for i := range config.Series {
		config.Series[i].Color = SeriesColor(i)
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func binPoints(bins []Bin) []ChartPoint {
	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%s-%s", FormatNumber(RoundTo2(b.Min)), FormatNumber(RoundTo2(b.Max))),
			Value: float64(b.Count),
		})
	}
	return points
}

func countPoints(counts []CategoryCount) []ChartPoint {
	points := make([]ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, ChartPoint{Label: c.Label, Value: float64(c.Count)})
	}
	return points
}

func xyPoints(pts []Point) []ChartPoint {
	points := make([]ChartPoint, 0, len(pts))
	for _, p := range pts {
		x := p.X
		points = append(points, ChartPoint{X: &x, Value: p.Y})
	}
	return points
}

// SeriesColor returns the palette color for the i-th series or slice.
func SeriesColor(i int) string {
	return defaultColors[i%len(defaultColors)]
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = SeriesColor(i)
	}
	return colors
}
