package integrators

type trapezoid struct{}

func NewTrapezoid() Quadrature { return trapezoid{} }

func (trapezoid) Name() string { return "trapezoid" }

func (trapezoid) Integrate(f Func, v0, v1 float64, n int) float64 {
	return Trapezoid(f, v0, v1, n)
}

// Trapezoid integrates f over [v0, v1] with n equal subintervals:
// h*(f(v0)/2 + f(v1)/2 + sum f(v0+i*h)). Subintervals touching a non-finite
// value are dropped. A zero-length interval yields 0.
func Trapezoid(f Func, v0, v1 float64, n int) float64 {
	if v0 == v1 {
		return 0
	}
	if n < 1 {
		n = 1
	}
	h := (v1 - v0) / float64(n)

	sum := 0.0
	prev := f(v0)
	for i := 1; i <= n; i++ {
		cur := f(node(v0, v1, h, i, n))
		if finite(prev) && finite(cur) {
			sum += 0.5 * (prev + cur)
		}
		prev = cur
	}
	return h * sum
}

// TrapezoidRaw is Trapezoid without exclusion of non-finite values.
func TrapezoidRaw(f Func, v0, v1 float64, n int) float64 {
	if v0 == v1 {
		return 0
	}
	if n < 1 {
		n = 1
	}
	h := (v1 - v0) / float64(n)

	result := 0.5 * (f(v0) + f(v1))
	for i := 1; i < n; i++ {
		result += f(v0 + float64(i)*h)
	}
	return h * result
}
