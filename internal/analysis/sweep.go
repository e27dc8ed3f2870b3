package analysis

import (
	"context"

	"github.com/san-kum/coexist/internal/coexist"
	"gonum.org/v1/gonum/floats"
)

// Temperatures returns n evenly spaced temperatures over [tmin, tmax].
func Temperatures(tmin, tmax float64, n int) []float64 {
	if n <= 1 {
		return []float64{tmin}
	}
	return floats.Span(make([]float64, n), tmin, tmax)
}

// Sweep solves base at each temperature. All isotherms share the volume
// domain and sampling of base.
func Sweep(ctx context.Context, s *coexist.Solver, base coexist.Isotherm, temps []float64, cfg coexist.Config, workers int) ([]coexist.Result, error) {
	isos := make([]coexist.Isotherm, len(temps))
	for i, t := range temps {
		iso := base
		iso.Temperature = t
		isos[i] = iso
	}
	return s.SolveAll(ctx, isos, cfg, workers)
}

// Converged keeps the converged results.
func Converged(results []coexist.Result) []coexist.Result {
	out := make([]coexist.Result, 0, len(results))
	for _, r := range results {
		if r.Converged {
			out = append(out, r)
		}
	}
	return out
}

// Binodal splits converged results into the liquid and vapor branches of
// the coexistence curve as (volume, pressure) pairs. The liquid branch is
// ordered by increasing volume, the vapor branch follows it back down, so
// the two join into one closed dome when plotted in sequence.
func Binodal(results []coexist.Result) (vs, ps []float64) {
	conv := Converged(results)
	vs = make([]float64, 0, 2*len(conv))
	ps = make([]float64, 0, 2*len(conv))
	for _, r := range conv {
		vs = append(vs, r.VLiquid)
		ps = append(ps, r.Pressure)
	}
	for i := len(conv) - 1; i >= 0; i-- {
		vs = append(vs, conv[i].VGas)
		ps = append(ps, conv[i].Pressure)
	}
	return vs, ps
}

// GapMonotonic reports whether VGas-VLiquid strictly shrinks over converged
// results ordered by increasing temperature.
func GapMonotonic(results []coexist.Result) bool {
	conv := Converged(results)
	for i := 1; i < len(conv); i++ {
		if conv[i].Temperature <= conv[i-1].Temperature {
			return false
		}
		if conv[i].VGas-conv[i].VLiquid >= conv[i-1].VGas-conv[i-1].VLiquid {
			return false
		}
	}
	return true
}
