package render

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/spektr-org/playbook/engine"
)

// ============================================================================
// CATEGORICAL PLOTS — go-chart
// ============================================================================

func (r *ChartRenderer) provider() chart.RendererProvider {
	if r.format == SVG {
		return chart.SVG
	}
	return chart.PNG
}

func (r *ChartRenderer) countBar(w io.Writer, instr *engine.PlotInstruction) error {
	bars := make([]chart.Value, 0, len(instr.Bar.Counts))
	for _, c := range instr.Bar.Counts {
		bars = append(bars, chart.Value{Label: c.Label, Value: float64(c.Count)})
	}
	return r.barChart(w, instr, bars)
}

func (r *ChartRenderer) groupedBar(w io.Writer, instr *engine.PlotInstruction) error {
	bars := make([]chart.Value, 0, len(instr.GroupedBar.Groups))
	for _, g := range instr.GroupedBar.Groups {
		bars = append(bars, chart.Value{Label: g.Category, Value: engine.RoundTo2(g.Mean)})
	}
	return r.barChart(w, instr, bars)
}

func (r *ChartRenderer) barChart(w io.Writer, instr *engine.PlotInstruction, bars []chart.Value) error {
	if len(bars) == 0 {
		return errors.New("no bars to draw")
	}
	allZero := true
	for i := range bars {
		bars[i].Style = chart.Style{
			FillColor:   paletteColor(i),
			StrokeColor: paletteColor(i),
		}
		if bars[i].Value != 0 {
			allZero = false
		}
	}
	if allZero {
		return errors.New("every bar is zero")
	}

	// Fit all bars inside the canvas.
	slot := (r.width - 120) / len(bars)
	if slot < 3 {
		slot = 3
	}
	bc := chart.BarChart{
		Title:      instr.Title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   slot * 2 / 3,
		BarSpacing: slot - slot*2/3,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis:      chart.YAxis{Name: instr.YLabel},
		Bars:       bars,
	}
	return bc.Render(r.provider(), w)
}

func (r *ChartRenderer) pie(w io.Writer, instr *engine.PlotInstruction) error {
	values := make([]chart.Value, 0, len(instr.Pie.Counts))
	for i, c := range instr.Pie.Counts {
		values = append(values, chart.Value{
			Label: c.Label + " " + engine.FormatNumber(c.Share) + "%",
			Value: float64(c.Count),
			Style: chart.Style{FillColor: paletteColor(i)},
		})
	}
	if len(values) == 0 {
		return errors.New("no slices to draw")
	}

	pc := chart.PieChart{
		Title:  instr.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	return pc.Render(r.provider(), w)
}
