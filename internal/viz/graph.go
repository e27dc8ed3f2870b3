package viz

import (
	"fmt"
	"math"
	"slices"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/isotherm"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue, asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Orange,
}

// GraphOptions sizes a terminal plot and bounds its pressure window.
type GraphOptions struct {
	Width       int
	Height      int
	PressureMin float64
	PressureMax float64
	Caption     string
}

func DefaultGraphOptions() GraphOptions {
	return GraphOptions{Width: 80, Height: 20, PressureMin: 0, PressureMax: 100}
}

// Curve is one labelled isotherm to draw.
type Curve struct {
	Label   string
	Samples []isotherm.Sample
}

// IsothermGraph plots curves sampled on a shared volume grid. Pressures are
// clamped to the window, undefined ones are drawn at its top. When sat is
// non-nil its saturation pressure is drawn as a flat line.
func IsothermGraph(curves []Curve, sat *coexist.Result, opts GraphOptions) string {
	if len(curves) == 0 {
		return ""
	}

	data := make([][]float64, 0, len(curves)+1)
	legends := make([]string, 0, len(curves)+1)
	colors := make([]asciigraph.AnsiColor, 0, len(curves)+1)
	n := 0
	for i, c := range curves {
		data = append(data, clampSeries(c.Samples, opts.PressureMin, opts.PressureMax))
		legends = append(legends, c.Label)
		colors = append(colors, seriesColors[i%len(seriesColors)])
		n = max(n, len(c.Samples))
	}

	if sat != nil && n > 0 {
		line := make([]float64, n)
		p := math.Max(opts.PressureMin, math.Min(opts.PressureMax, sat.Pressure))
		for i := range line {
			line[i] = p
		}
		data = append(data, line)
		legends = append(legends, fmt.Sprintf("P sat (T = %g K)", sat.Temperature))
		colors = append(colors, asciigraph.Red)
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(opts.PressureMin),
		asciigraph.UpperBound(opts.PressureMax),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Precision(1),
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	return asciigraph.PlotMany(data, options...)
}

func clampSeries(samples []isotherm.Sample, lo, hi float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		p := s.P
		if !eos.IsDefined(p) {
			p = hi
		}
		out[i] = math.Max(lo, math.Min(hi, p))
	}
	return out
}

// BinodalGraph plots saturation pressure against temperature for the
// converged results.
func BinodalGraph(results []coexist.Result, opts GraphOptions) string {
	ps := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Converged {
			ps = append(ps, r.Pressure)
		}
	}
	if len(ps) == 0 {
		return ""
	}
	caption := opts.Caption
	if caption == "" {
		caption = "saturation pressure vs temperature"
	}
	return asciigraph.Plot(ps,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}

// ConvergenceGraph plots the trial pressure of each iteration. A finite psat
// is drawn as a flat line beside the trials.
func ConvergenceGraph(pressures []float64, psat float64, opts GraphOptions) string {
	if len(pressures) == 0 {
		return ""
	}
	caption := opts.Caption
	if caption == "" {
		caption = "trial pressure per iteration"
	}
	series := [][]float64{pressures}
	legends := []string{"trial P"}
	if !math.IsNaN(psat) && !math.IsInf(psat, 0) {
		series = append(series, slices.Repeat([]float64{psat}, len(pressures)))
		legends = append(legends, "P sat")
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(seriesColors[:len(series)]...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption),
	)
}

// Curves samples m at each temperature on a shared grid of n volumes.
func Curves(m eos.Model, temps []float64, vmin, vmax float64, n int, logv bool) []Curve {
	vs := isotherm.Grid(vmin, vmax, n)
	if logv {
		vs = isotherm.LogGrid(vmin, vmax, n)
	}
	curves := make([]Curve, 0, len(temps))
	for _, t := range temps {
		label := fmt.Sprintf("%s T = %g K", m.Name(), t)
		curves = append(curves, Curve{Label: label, Samples: isotherm.Collect(isotherm.AtVolumes(m, t, vs))})
	}
	return curves
}
