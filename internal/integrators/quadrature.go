package integrators

import "math"

// Func is a scalar integrand of volume.
type Func func(v float64) float64

type Quadrature interface {
	Integrate(f Func, v0, v1 float64, n int) float64
	Name() string
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// node returns the i-th of n+1 equally spaced points, pinning the last one
// to v1 to avoid accumulated rounding.
func node(v0, v1, h float64, i, n int) float64 {
	if i == n {
		return v1
	}
	return v0 + float64(i)*h
}
