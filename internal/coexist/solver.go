package coexist

import (
	"math"

	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/extrema"
	"github.com/san-kum/coexist/internal/integrators"
	"github.com/san-kum/coexist/internal/isotherm"
)

type Solver struct {
	model     eos.Model
	quad      integrators.Quadrature
	observers []Observer
}

// New returns a solver over m. A nil quadrature selects the trapezoidal rule.
func New(m eos.Model, q integrators.Quadrature) *Solver {
	if q == nil {
		q = integrators.NewTrapezoid()
	}
	return &Solver{
		model:     m,
		quad:      q,
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Solver) Model() eos.Model { return s.model }

// Solve runs the construction with the trapezoidal rule.
func Solve(m eos.Model, iso Isotherm, cfg Config) (Result, error) {
	return New(m, nil).Solve(iso, cfg)
}

func (s *Solver) Solve(iso Isotherm, cfg Config) (Result, error) {
	return s.SolveWith(iso, cfg)
}

// SolveWith is Solve with extra observers that see only this call, so
// concurrent callers can trace their own iterations.
func (s *Solver) SolveWith(iso Isotherm, cfg Config, extra ...Observer) (Result, error) {
	if err := Validate(s.model, iso, cfg); err != nil {
		return Result{}, err
	}

	t := iso.Temperature
	res := Result{
		Temperature: t,
		VLiquid:     iso.VolumeMin,
		VGas:        iso.VolumeMax,
		Pressure:    cfg.InitialPressure,
	}

	samples := isotherm.Samples(s.model, t, iso.VolumeMin, iso.VolumeMax, iso.Samples)
	hump, ok := extrema.FindHump(samples)
	if !ok || hump.PLocalMax <= 0 {
		above, below := s.areas(t, res.Pressure, res.VLiquid, res.VGas, iso.Samples)
		res.Residual = above - below
		res.Reason = ReasonSupercritical
		if ok {
			res.Reason = ReasonNoPositiveHump
		}
		if e, err := extrema.Find(samples); err == nil {
			res.BoundaryExtrema = iso.atBoundary(e.VAtMax) && iso.atBoundary(e.VAtMin)
		}
		return res, nil
	}

	lo, hi := math.Max(hump.PLocalMin, 0), hump.PLocalMax
	p := cfg.InitialPressure
	if !(p > lo && p < hi) {
		p = 0.5 * (lo + hi)
	}

	crossed := false
	for i := 1; i <= cfg.MaxIterations; i++ {
		v1, okL := s.crossing(t, p, iso.VolumeMin, hump.VLocalMin)
		if !okL {
			v1 = iso.VolumeMin
		}
		v2, okG := s.crossing(t, p, hump.VLocalMax, iso.VolumeMax)
		if !okG {
			v2 = iso.VolumeMax
		}
		crossed = crossed || (okL && okG)

		above, below := s.areas(t, p, v1, v2, iso.Samples)
		diff := above - below

		res.VLiquid, res.VGas, res.Pressure = v1, v2, p
		res.Residual = diff
		res.Iterations = i

		it := Iteration{
			Index:       i,
			Temperature: t,
			Pressure:    p,
			VLiquid:     v1,
			VGas:        v2,
			AreaAbove:   above,
			AreaBelow:   below,
			Difference:  diff,
		}
		for _, obs := range s.observers {
			obs.OnIteration(it)
		}
		for _, obs := range extra {
			obs.OnIteration(it)
		}

		if okL && okG && math.Abs(diff) < cfg.Tolerance {
			res.Converged = true
			return res, nil
		}

		p = adjust(p, cfg.Gain*diff, lo, hi)
	}

	if crossed {
		res.Reason = ReasonMaxIterations
	} else {
		res.Reason = ReasonNoCrossing
	}
	return res, nil
}

// areas integrates the parts of the isotherm above and below p over
// [v1, v2]. Undefined pressures are passed to the quadrature unchanged so
// they are excluded rather than counted as zero.
func (s *Solver) areas(t, p, v1, v2 float64, n int) (above, below float64) {
	above = s.quad.Integrate(func(v float64) float64 {
		pv := s.model.Pressure(v, t)
		if !eos.IsDefined(pv) {
			return pv
		}
		return math.Max(0, pv-p)
	}, v1, v2, n)
	below = s.quad.Integrate(func(v float64) float64 {
		pv := s.model.Pressure(v, t)
		if !eos.IsDefined(pv) {
			return pv
		}
		return math.Max(0, p-pv)
	}, v1, v2, n)
	return above, below
}

// adjust applies the feedback step, halving toward the bound it would cross
// so the trial pressure stays strictly inside the hump's pressure range.
func adjust(p, step, lo, hi float64) float64 {
	next := p + step
	switch {
	case next >= hi:
		return 0.5 * (p + hi)
	case next <= lo:
		return 0.5 * (p + lo)
	}
	return next
}
