package integrators

type simpson struct{}

func NewSimpson() Quadrature { return simpson{} }

func (simpson) Name() string { return "simpson" }

func (simpson) Integrate(f Func, v0, v1 float64, n int) float64 {
	return Simpson(f, v0, v1, n)
}

// Simpson integrates f over [v0, v1] with the composite Simpson rule. An odd
// n is rounded up. Panels containing a non-finite value are dropped.
func Simpson(f Func, v0, v1 float64, n int) float64 {
	if v0 == v1 {
		return 0
	}
	if n < 2 {
		n = 2
	}
	if n%2 != 0 {
		n++
	}
	h := (v1 - v0) / float64(n)

	sum := 0.0
	left := f(v0)
	for i := 0; i < n; i += 2 {
		mid := f(node(v0, v1, h, i+1, n))
		right := f(node(v0, v1, h, i+2, n))
		if finite(left) && finite(mid) && finite(right) {
			sum += left + 4*mid + right
		}
		left = right
	}
	return h / 3 * sum
}
