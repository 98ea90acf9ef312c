package render

import (
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/playbook/engine"
)

// ============================================================================
// CONTINUOUS PLOTS — gonum/plot
// ============================================================================

// pixelsPerInch matches the vgimg default so WithSize is in pixels.
const pixelsPerInch = 96

func (r *ChartRenderer) newPlot(instr *engine.PlotInstruction) *plot.Plot {
	p := plot.New()
	p.Title.Text = instr.Title
	p.X.Label.Text = instr.XLabel
	p.Y.Label.Text = instr.YLabel
	p.Add(plotter.NewGrid())
	return p
}

func (r *ChartRenderer) save(w io.Writer, p *plot.Plot) error {
	width := vg.Length(r.width) * vg.Inch / pixelsPerInch
	height := vg.Length(r.height) * vg.Inch / pixelsPerInch
	wt, err := p.WriterTo(width, height, string(r.format))
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func (r *ChartRenderer) histogram(w io.Writer, instr *engine.PlotInstruction) error {
	p := r.newPlot(instr)

	bins := make([]plotter.HistogramBin, 0, len(instr.Histogram.Bins))
	for _, b := range instr.Histogram.Bins {
		lo, hi := b.Min, b.Max
		if lo == hi {
			// A constant column gives a zero-width bin; draw it one unit wide.
			lo, hi = lo-0.5, hi+0.5
		}
		bins = append(bins, plotter.HistogramBin{Min: lo, Max: hi, Weight: float64(b.Count)})
	}
	if len(bins) == 0 {
		return r.save(w, p)
	}

	h := &plotter.Histogram{
		Bins:      bins,
		Width:     bins[0].Max - bins[0].Min,
		FillColor: rgba(paletteColor(0)),
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(h)

	if curve := densityCurve(instr.Histogram.Values, h.Width, kdePoints); curve != nil {
		l, err := plotter.NewLine(curve)
		if err != nil {
			return err
		}
		l.Color = rgba(paletteColor(1))
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}
	return r.save(w, p)
}

// kdePoints is the number of samples along the density curve.
const kdePoints = 100

// densityCurve samples a Gaussian kernel density estimate of values over
// their range padded by three bandwidths. Densities are scaled by
// len(values)*binWidth so the curve sits on the same axis as bin counts.
// Returns nil when the values have no spread.
func densityCurve(values []float64, binWidth float64, n int) plotter.XYs {
	if len(values) < 2 || n < 2 {
		return nil
	}
	_, sd := stat.MeanStdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	// Silverman's rule of thumb.
	bw := 1.06 * sd * math.Pow(float64(len(values)), -0.2)

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = lo-3*bw, hi+3*bw

	scale := binWidth / (bw * math.Sqrt(2*math.Pi))
	step := (hi - lo) / float64(n-1)
	pts := make(plotter.XYs, n)
	for i := range pts {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range values {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		pts[i].X = x
		pts[i].Y = sum * scale
	}
	return pts
}

func (r *ChartRenderer) scatter(w io.Writer, instr *engine.PlotInstruction) error {
	p := r.newPlot(instr)

	s, err := plotter.NewScatter(xys(instr.Scatter.Points))
	if err != nil {
		return err
	}
	s.Color = rgba(paletteColor(0))
	s.Radius = vg.Points(2.5)
	p.Add(s)
	return r.save(w, p)
}

func (r *ChartRenderer) trend(w io.Writer, instr *engine.PlotInstruction) error {
	p := r.newPlot(instr)

	l, err := plotter.NewLine(xys(instr.Trend.Points))
	if err != nil {
		return err
	}
	l.Color = rgba(paletteColor(0))
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	return r.save(w, p)
}

func xys(points []engine.Point) plotter.XYs {
	pts := make(plotter.XYs, len(points))
	for i, pt := range points {
		pts[i].X = pt.X
		pts[i].Y = pt.Y
	}
	return pts
}
