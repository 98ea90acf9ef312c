// Package render draws resolved plot instructions to PNG or SVG.
//
// Continuous plots (histogram, scatter, trend) go through gonum/plot;
// categorical plots (count bars, grouped bars, pies) go through go-chart.
package render

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/playbook/engine"
	"github.com/spektr-org/playbook/logx"
)

// Renderer draws a plot instruction.
type Renderer interface {
	Render(w io.Writer, instr *engine.PlotInstruction) error
}

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", errors.Errorf("unknown image format '%s'", s)
	}
}

// FormatForPath picks the format from a file extension, or fallback when
// the extension is neither .png nor .svg.
func FormatForPath(path string, fallback Format) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return fallback
}

// ChartRenderer is the default Renderer.
type ChartRenderer struct {
	width  int
	height int
	format Format
}

// Option configures a ChartRenderer.
type Option func(*ChartRenderer)

// WithSize sets the image size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(r *ChartRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithFormat sets the output encoding.
func WithFormat(f Format) Option {
	return func(r *ChartRenderer) {
		if f == PNG || f == SVG {
			r.format = f
		}
	}
}

// New returns an 800×500 PNG renderer adjusted by opts.
func New(opts ...Option) *ChartRenderer {
	r := &ChartRenderer{width: 800, height: 500, format: PNG}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Format returns the renderer's output encoding.
func (r *ChartRenderer) Format() Format { return r.format }

// Render draws instr to w.
func (r *ChartRenderer) Render(w io.Writer, instr *engine.PlotInstruction) error {
	if instr == nil {
		return errors.New("nothing to render")
	}

	var err error
	switch instr.Kind {
	case engine.PlotHistogram:
		err = r.histogram(w, instr)
	case engine.PlotScatter:
		err = r.scatter(w, instr)
	case engine.PlotTrend:
		err = r.trend(w, instr)
	case engine.PlotBar:
		err = r.countBar(w, instr)
	case engine.PlotGroupedBar:
		err = r.groupedBar(w, instr)
	case engine.PlotPie:
		err = r.pie(w, instr)
	default:
		return errors.Errorf("unsupported plot kind '%s'", instr.Kind)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to render %s", instr.Kind)
	}
	logx.Debugf("🖼️  Playbook: rendered %s as %s (%dx%d)", instr.Kind, r.format, r.width, r.height)
	return nil
}

// RenderFile draws instr into the named file, creating or truncating it.
func RenderFile(r Renderer, fname string, instr *engine.PlotInstruction) error {
	f, err := os.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", fname)
	}
	if err := r.Render(f, instr); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", fname)
	}
	return nil
}

// paletteColor converts the engine palette entry for series i.
func paletteColor(i int) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(engine.SeriesColor(i), "#"))
}

func rgba(c drawing.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
