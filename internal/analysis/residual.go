package analysis

import (
	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DefaultResidualPoints is the grid size used by Residual.
const DefaultResidualPoints = 200001

// Residual integrates P(V) - Psat over [VLiquid, VGas] with gonum's Simpson
// rule on n points, independently of the solver's own quadrature. Undefined
// pressures are excluded.
func Residual(m eos.Model, res coexist.Result, n int) float64 {
	if n < 3 {
		n = 3
	}
	if n%2 == 0 {
		n++
	}
	if res.VGas <= res.VLiquid {
		return 0
	}

	x := floats.Span(make([]float64, n), res.VLiquid, res.VGas)
	xs := make([]float64, 0, n)
	fs := make([]float64, 0, n)
	for _, v := range x {
		p := m.Pressure(v, res.Temperature)
		if !eos.IsDefined(p) {
			continue
		}
		xs = append(xs, v)
		fs = append(fs, p-res.Pressure)
	}
	if len(xs) < 2 {
		return 0
	}
	if len(xs) == 2 {
		return integrate.Trapezoidal(xs, fs)
	}
	return integrate.Simpsons(xs, fs)
}
