package coexist

import "github.com/san-kum/coexist/internal/eos"

const maxBisections = 200

// crossing finds V in [a, c] with P(V) = p by bisection. Both branches
// bracketed by the hump are monotonic, so a sign change means exactly one
// root. Reports false when [a, c] does not bracket p.
func (s *Solver) crossing(t, p, a, c float64) (float64, bool) {
	ga := s.model.Pressure(a, t) - p
	gc := s.model.Pressure(c, t) - p
	if !eos.IsDefined(ga) || !eos.IsDefined(gc) {
		return 0, false
	}
	switch {
	case ga == 0:
		return a, true
	case gc == 0:
		return c, true
	case (ga > 0) == (gc > 0):
		return 0, false
	}

	for i := 0; i < maxBisections; i++ {
		m := 0.5 * (a + c)
		if m <= a || m >= c {
			break
		}
		gm := s.model.Pressure(m, t) - p
		if gm == 0 {
			return m, true
		}
		if (gm > 0) == (ga > 0) {
			a, ga = m, gm
		} else {
			c = m
		}
	}
	return 0.5 * (a + c), true
}
