package viz

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/isotherm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// PlotOptions controls the exported chart.
type PlotOptions struct {
	Title       string
	PressureMin float64
	PressureMax float64
	LogVolume   bool
	Width       vg.Length
	Height      vg.Length
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Title:       "Isotherms",
		PressureMin: 0,
		PressureMax: 100,
		Width:       8 * vg.Inch,
		Height:      5 * vg.Inch,
	}
}

// NewPlot builds a P-V chart of curves, with a dashed tie line for each
// converged result.
func NewPlot(curves []Curve, results []coexist.Result, opts PlotOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Volume"
	p.Y.Label.Text = "Pressure"
	p.Y.Min = opts.PressureMin
	p.Y.Max = opts.PressureMax
	p.Legend.Top = true
	if opts.LogVolume {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for i, c := range curves {
		xys := windowXYs(c.Samples, opts)
		if len(xys) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", c.Label, err)
		}
		line.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(c.Label, line)
	}

	for _, r := range results {
		if !r.Converged {
			continue
		}
		tie, err := plotter.NewLine(plotter.XYs{{X: r.VLiquid, Y: r.Pressure}, {X: r.VGas, Y: r.Pressure}})
		if err != nil {
			return nil, err
		}
		tie.Color = color.Black
		tie.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(tie)

		ends, err := plotter.NewScatter(plotter.XYs{{X: r.VLiquid, Y: r.Pressure}, {X: r.VGas, Y: r.Pressure}})
		if err != nil {
			return nil, err
		}
		ends.GlyphStyle.Shape = draw.CircleGlyph{}
		ends.GlyphStyle.Radius = vg.Points(2)
		p.Add(ends)
		p.Legend.Add(fmt.Sprintf("P sat (T = %g K)", r.Temperature), tie)
	}

	return p, nil
}

// SavePlot writes the chart; the format follows the file extension.
func SavePlot(path string, curves []Curve, results []coexist.Result, opts PlotOptions) error {
	p, err := NewPlot(curves, results, opts)
	if err != nil {
		return err
	}
	return p.Save(opts.Width, opts.Height, path)
}

func windowXYs(samples []isotherm.Sample, opts PlotOptions) plotter.XYs {
	xys := make(plotter.XYs, 0, len(samples))
	visible := isotherm.Window(isotherm.Defined(slices.Values(samples)), opts.PressureMin, opts.PressureMax)
	for s := range visible {
		if opts.LogVolume && s.V <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: s.V, Y: s.P})
	}
	return xys
}
