package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
)

func renderDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.Column{Name: "Points", Kind: engine.Quantitative, Numbers: []float64{10, 22, 7, 15, 29, 22, 13, 8}},
		dataset.Column{Name: "SpeedKmh", Kind: engine.Quantitative, Decimals: 1, Numbers: []float64{20.5, 31, 18.2, 25.1, 33.9, 22, 16.4, 27.7}},
		dataset.Column{Name: "Team", Kind: engine.Qualitative, Labels: []string{"Lions", "Wolves", "Lions", "Eagles", "Wolves", "Lions", "Tigers", "Eagles"}},
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

var everyPlot = []engine.ChartRequest{
	{Kind: engine.ChartHistogram, Columns: []string{"Points"}},
	{Kind: engine.ChartBar, Columns: []string{"Team"}},
	{Kind: engine.ChartBar, Columns: []string{"SpeedKmh", "Team"}},
	{Kind: engine.ChartScatter, Columns: []string{"Points", "SpeedKmh"}},
	{Kind: engine.ChartPie, Columns: []string{"Team"}},
	{Kind: engine.ChartTrend, Columns: []string{"SpeedKmh"}},
}

func TestRenderEveryPlotKind(t *testing.T) {
	ds := renderDataset(t)

	for _, format := range []Format{PNG, SVG} {
		r := New(WithSize(640, 400), WithFormat(format))
		for _, req := range everyPlot {
			res := engine.Resolve(ds, req)
			if res.Status != engine.StatusResolved {
				t.Fatalf("%s %v: got %+v", req.Kind, req.Columns, res)
			}

			var buf bytes.Buffer
			if err := r.Render(&buf, res.Instruction); err != nil {
				t.Fatalf("%s %s: Render: %v", format, res.Instruction.Kind, err)
			}
			assertImage(t, format, buf.Bytes(), string(res.Instruction.Kind))
		}
	}
}

func TestRenderConstantHistogram(t *testing.T) {
	instr := &engine.PlotInstruction{
		Kind:  engine.PlotHistogram,
		Title: "Distribution of Flat",
		Histogram: &engine.HistogramPlot{
			Column: "Flat",
			Values: []float64{5, 5, 5},
			Bins:   engine.HistogramBins([]float64{5, 5, 5}, 0),
		},
	}
	var buf bytes.Buffer
	if err := New().Render(&buf, instr); err != nil {
		t.Fatalf("Render: %v", err)
	}
	assertImage(t, PNG, buf.Bytes(), "constant histogram")
}

func TestRenderErrors(t *testing.T) {
	r := New()
	if err := r.Render(&bytes.Buffer{}, nil); err == nil {
		t.Error("nil instruction: want error")
	}

	zero := &engine.PlotInstruction{
		Kind: engine.PlotGroupedBar,
		GroupedBar: &engine.GroupedBarPlot{
			Groups: []engine.GroupMean{{Category: "A", Mean: 0, Count: 1}},
		},
	}
	err := r.Render(&bytes.Buffer{}, zero)
	if err == nil || !strings.Contains(err.Error(), "failed to render grouped_bar") {
		t.Errorf("all-zero bars: got %v", err)
	}

	if err := r.Render(&bytes.Buffer{}, &engine.PlotInstruction{Kind: "radar"}); err == nil {
		t.Error("unknown kind: want error")
	}
}

func TestRenderFile(t *testing.T) {
	res := engine.Resolve(renderDataset(t), engine.ChartRequest{Kind: engine.ChartPie, Columns: []string{"Team"}})
	fname := filepath.Join(t.TempDir(), "pie.svg")

	r := New(WithFormat(FormatForPath(fname, PNG)))
	if err := RenderFile(r, fname, res.Instruction); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("read %s: %v", fname, err)
	}
	assertImage(t, SVG, data, "pie file")
}

func TestFormats(t *testing.T) {
	if f, err := ParseFormat(" SVG "); err != nil || f != SVG {
		t.Errorf("ParseFormat(SVG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif): want error")
	}
	if f := FormatForPath("out/chart.PNG", SVG); f != PNG {
		t.Errorf("FormatForPath(.PNG) = %q", f)
	}
	if f := FormatForPath("chart", SVG); f != SVG {
		t.Errorf("FormatForPath(no ext) = %q", f)
	}
	if r := New(WithFormat("gif"), WithSize(-1, 0)); r.Format() != PNG || r.width != 800 || r.height != 500 {
		t.Errorf("invalid options changed defaults: %+v", r)
	}
}

func assertImage(t *testing.T, format Format, data []byte, what string) {
	t.Helper()
	switch format {
	case PNG:
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s: output is not a PNG (%d bytes)", what, len(data))
		}
	case SVG:
		if !bytes.Contains(data, []byte("<svg")) {
			t.Errorf("%s: output is not an SVG (%d bytes)", what, len(data))
		}
	}
}

func TestDensityCurve(t *testing.T) {
	values := []float64{3, 7, 8, 9, 10, 12, 12, 15, 18, 25}
	const binWidth = 2.5
	curve := densityCurve(values, binWidth, 400)
	if len(curve) != 400 {
		t.Fatalf("got %d points, want 400", len(curve))
	}
	if curve[0].X >= 3 || curve[len(curve)-1].X <= 25 {
		t.Errorf("curve spans [%g, %g], want it padded beyond [3, 25]", curve[0].X, curve[len(curve)-1].X)
	}

	// The area under the curve matches the total histogram area.
	var area float64
	for i := 1; i < len(curve); i++ {
		area += (curve[i].X - curve[i-1].X) * (curve[i].Y + curve[i-1].Y) / 2
	}
	if want := float64(len(values)) * binWidth; math.Abs(area-want) > 0.02*want {
		t.Errorf("area = %g, want about %g", area, want)
	}

	for _, flat := range [][]float64{nil, {4}, {5, 5, 5}} {
		if got := densityCurve(flat, 1, 100); got != nil {
			t.Errorf("densityCurve(%v) = %d points, want nil", flat, len(got))
		}
	}
}
