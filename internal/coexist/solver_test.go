package coexist

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/integrators"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

func acetyleneIsotherm(t float64) Isotherm {
	return DefaultIsotherm(eos.Acetylene, t)
}

// equalArea integrates P - Psat over [v1, v2] on a fine grid with gonum,
// independently of the solver's quadrature.
func equalArea(m eos.Model, res Result) float64 {
	const n = 200000
	x := floats.Span(make([]float64, n+1), res.VLiquid, res.VGas)
	f := make([]float64, len(x))
	for i, v := range x {
		f[i] = m.Pressure(v, res.Temperature) - res.Pressure
	}
	return integrate.Simpsons(x, f)
}

func TestSolveAcetylene(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	cfg := DefaultConfig()

	res, err := Solve(m, acetyleneIsotherm(300), cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if !res.Converged {
		t.Fatalf("expected convergence, got %+v", res)
	}
	if res.Pressure <= 0 || res.Pressure > 99 {
		t.Errorf("saturation pressure out of expected magnitude: %f", res.Pressure)
	}
	if math.Abs(res.Pressure-39.89) > 0.05 {
		t.Errorf("expected saturation pressure ~39.89, got %f", res.Pressure)
	}
	if math.Abs(res.VLiquid-0.0889) > 1e-3 {
		t.Errorf("expected liquid volume ~0.0889, got %f", res.VLiquid)
	}
	if math.Abs(res.VGas-0.4158) > 2e-3 {
		t.Errorf("expected gas volume ~0.4158, got %f", res.VGas)
	}
	if res.Iterations < 1 || res.Iterations > cfg.MaxIterations {
		t.Errorf("unexpected iteration count %d", res.Iterations)
	}

	// both volumes lie on the isotherm at the saturation pressure
	for _, v := range []float64{res.VLiquid, res.VGas} {
		if p := m.Pressure(v, 300); math.Abs(p-res.Pressure) > 1e-6 {
			t.Errorf("P(%f) = %f, expected %f", v, p, res.Pressure)
		}
	}
}

func TestEqualAreaIndependent(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	cfg := DefaultConfig()

	for _, temp := range []float64{270, 300, 330} {
		res, err := Solve(m, acetyleneIsotherm(temp), cfg)
		if err != nil {
			t.Fatalf("T=%.0f: solve failed: %v", temp, err)
		}
		if !res.Converged {
			t.Fatalf("T=%.0f: expected convergence", temp)
		}
		if area := equalArea(m, res); math.Abs(area) > 10*cfg.Tolerance {
			t.Errorf("T=%.0f: equal-area residual %g exceeds %g", temp, area, 10*cfg.Tolerance)
		}
	}
}

func TestOrdering(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)

	for _, temp := range []float64{250, 280, 310, 340} {
		res, err := Solve(m, acetyleneIsotherm(temp), DefaultConfig())
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if !res.Converged {
			t.Errorf("T=%.0f: expected convergence", temp)
			continue
		}
		if !(eos.Acetylene.B < res.VLiquid && res.VLiquid < res.VGas) {
			t.Errorf("T=%.0f: ordering violated: b=%f V_l=%f V_g=%f", temp, eos.Acetylene.B, res.VLiquid, res.VGas)
		}
	}
}

func TestGapShrinksTowardCritical(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	temps := []float64{260, 280, 300, 320, 335, 340}

	prevGap := math.Inf(1)
	for _, temp := range temps {
		res, err := Solve(m, acetyleneIsotherm(temp), DefaultConfig())
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if !res.Converged {
			t.Fatalf("T=%.0f: expected convergence", temp)
		}
		gap := res.VGas - res.VLiquid
		if gap >= prevGap {
			t.Errorf("T=%.0f: gap %f did not shrink from %f", temp, gap, prevGap)
		}
		prevGap = gap
	}
	if prevGap > 0.1 {
		t.Errorf("expected a narrow gap near Tc, got %f", prevGap)
	}
}

func TestDeterminism(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	iso := acetyleneIsotherm(300)
	cfg := DefaultConfig()

	first, err := Solve(m, iso, cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Solve(m, iso, cfg)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestIdealGasDoesNotConverge(t *testing.T) {
	m := eos.NewIdealGas(eos.Acetylene)

	res, err := Solve(m, acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if res.Converged {
		t.Error("ideal gas has no coexistence region")
	}
	if res.Reason != ReasonSupercritical {
		t.Errorf("expected reason %q, got %q", ReasonSupercritical, res.Reason)
	}
	if !res.BoundaryExtrema {
		t.Error("monotonic isotherm should have its extrema on the domain ends")
	}
	if !(res.VLiquid < res.VGas) {
		t.Errorf("ordering violated on degenerate result: %+v", res)
	}
}

// shifted lowers every defined pressure of a model by a constant.
type shifted struct {
	eos.Model
	by float64
}

func (m shifted) Pressure(v, t float64) float64 {
	p := m.Model.Pressure(v, t)
	if !eos.IsDefined(p) {
		return p
	}
	return p - m.by
}

func TestNegativeHumpReason(t *testing.T) {
	// the 300 K hump peaks near 46.5, so the whole hump sits below zero
	m := shifted{Model: eos.NewVanDerWaals(eos.Acetylene), by: 100}

	res, err := Solve(m, acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if res.Converged {
		t.Fatal("no coexistence at positive pressure")
	}
	if res.Reason != ReasonNoPositiveHump {
		t.Errorf("expected reason %q, got %q", ReasonNoPositiveHump, res.Reason)
	}
	if res.BoundaryExtrema {
		t.Error("a humped isotherm has an interior minimum")
	}
	if res.Iterations != 0 {
		t.Errorf("expected no iterations, got %d", res.Iterations)
	}
}

func TestDefaultIsothermLowTemperature(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)

	iso := DefaultIsotherm(eos.Acetylene, 150)
	if iso.VolumeMax <= 10 || iso.VolumeMin >= eos.Acetylene.B+0.01 {
		t.Fatalf("domain did not widen at 150 K: %+v", iso)
	}
	if spacing := (iso.VolumeMax - iso.VolumeMin) / float64(iso.Samples); spacing > 1.001e-3 {
		t.Errorf("sample spacing %g coarser than the default", spacing)
	}
	if def := DefaultIsotherm(eos.Acetylene, 300); def.VolumeMax != 10 || def.Samples != DefaultSamples {
		t.Errorf("300 K domain should be unchanged: %+v", def)
	}

	// the loop is stable only while gain*(VGas-VLiquid) < 2
	cfg := DefaultConfig()
	cfg.Gain = 0.05
	res, err := Solve(m, iso, cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence at 150 K: %+v", res)
	}
	if res.VGas <= 10 {
		t.Errorf("vapor volume %g should lie beyond the old domain", res.VGas)
	}
	if math.Abs(res.Pressure-0.741) > 0.01 {
		t.Errorf("expected saturation pressure near 0.741, got %g", res.Pressure)
	}
}

func TestSupercriticalDoesNotConverge(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	tc := eos.Critical(eos.Acetylene).T

	for _, temp := range []float64{tc + 1, 400} {
		res, err := Solve(m, acetyleneIsotherm(temp), DefaultConfig())
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if res.Converged {
			t.Errorf("T=%.1f above Tc=%.1f should not converge", temp, tc)
		}
		if res.Reason != ReasonSupercritical || !res.BoundaryExtrema {
			t.Errorf("T=%.1f: expected monotonic supercritical report, got %+v", temp, res)
		}
	}
}

func TestNarrowDomainFallsBack(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	iso := acetyleneIsotherm(300)
	iso.VolumeMax = 0.3 // the vapor root (~0.416) lies outside

	res, err := Solve(m, iso, DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if res.Converged {
		t.Error("expected non-convergence without a vapor crossing")
	}
	if res.Reason == "" {
		t.Error("expected a non-convergence reason")
	}
	if !(res.VLiquid < res.VGas) || res.VGas > iso.VolumeMax {
		t.Errorf("best estimate out of domain: %+v", res)
	}
}

func TestMaxIterationsReported(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	cfg := DefaultConfig()
	cfg.MaxIterations = 2

	res, err := Solve(m, acetyleneIsotherm(300), cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if res.Converged {
		t.Fatal("did not expect convergence in 2 iterations")
	}
	if res.Iterations != 2 {
		t.Errorf("expected 2 iterations, got %d", res.Iterations)
	}
	if res.Reason != ReasonMaxIterations {
		t.Errorf("expected reason %q, got %q", ReasonMaxIterations, res.Reason)
	}
}

func TestInvalidConfig(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	base := acetyleneIsotherm(300)

	tests := []struct {
		name  string
		iso   func(Isotherm) Isotherm
		cfg   func(Config) Config
		field string
	}{
		{"volume_min at b", func(i Isotherm) Isotherm { i.VolumeMin = eos.Acetylene.B; return i }, nil, "volume_min"},
		{"volume_max below min", func(i Isotherm) Isotherm { i.VolumeMax = i.VolumeMin; return i }, nil, "volume_max"},
		{"zero samples", func(i Isotherm) Isotherm { i.Samples = 0; return i }, nil, "samples"},
		{"zero temperature", func(i Isotherm) Isotherm { i.Temperature = 0; return i }, nil, "temperature"},
		{"zero tolerance", nil, func(c Config) Config { c.Tolerance = 0; return c }, "tolerance"},
		{"zero max iterations", nil, func(c Config) Config { c.MaxIterations = 0; return c }, "max_iterations"},
		{"negative gain", nil, func(c Config) Config { c.Gain = -0.1; return c }, "gain"},
		{"NaN initial pressure", nil, func(c Config) Config { c.InitialPressure = math.NaN(); return c }, "initial_pressure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso, cfg := base, DefaultConfig()
			if tt.iso != nil {
				iso = tt.iso(iso)
			}
			if tt.cfg != nil {
				cfg = tt.cfg(cfg)
			}

			_, err := Solve(m, iso, cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ce.Field)
			}
		})
	}
}

func TestInvalidSubstance(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Substance{A: 1, B: 0, R: 1})
	_, err := Solve(m, Isotherm{Temperature: 1, VolumeMin: 1, VolumeMax: 2, Samples: 10}, DefaultConfig())
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, eos.ErrDomain) {
		t.Errorf("expected ErrInvalidConfig wrapping eos.ErrDomain, got %v", err)
	}

	if _, err := New(nil, nil).Solve(acetyleneIsotherm(300), DefaultConfig()); !errors.Is(err, ErrNilModel) {
		t.Errorf("expected ErrNilModel, got %v", err)
	}
}

func TestObserver(t *testing.T) {
	s := New(eos.NewVanDerWaals(eos.Acetylene), nil)
	rec := NewRecorder()
	s.AddObserver(rec)

	res, err := s.Solve(acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	iters := rec.Iterations()
	if len(iters) != res.Iterations {
		t.Fatalf("expected %d observed iterations, got %d", res.Iterations, len(iters))
	}
	last := iters[len(iters)-1]
	if last.Pressure != res.Pressure || last.Difference != res.Residual {
		t.Errorf("last iteration %+v does not match result %+v", last, res)
	}
	for _, it := range iters {
		if it.AreaAbove < 0 || it.AreaBelow < 0 {
			t.Errorf("clipped areas must be non-negative: %+v", it)
		}
		if math.Abs(it.AreaAbove-it.AreaBelow-it.Difference) > 1e-12 {
			t.Errorf("difference is not above - below: %+v", it)
		}
	}
	if len(rec.Pressures()) != len(iters) {
		t.Error("pressure history length mismatch")
	}
}

func TestSolveWithScopesObservers(t *testing.T) {
	s := New(eos.NewVanDerWaals(eos.Acetylene), nil)
	shared := NewRecorder()
	s.AddObserver(shared)

	local := NewRecorder()
	res, err := s.SolveWith(acetyleneIsotherm(300), DefaultConfig(), local)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(local.Iterations()) != res.Iterations {
		t.Errorf("expected %d local iterations, got %d", res.Iterations, len(local.Iterations()))
	}

	if _, err := s.Solve(acetyleneIsotherm(310), DefaultConfig()); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(local.Iterations()) != res.Iterations {
		t.Error("per-call observer saw a later solve")
	}
	if len(shared.Iterations()) <= res.Iterations {
		t.Error("shared observer should see both solves")
	}
}

func TestSimpsonQuadrature(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)

	trap, err := New(m, integrators.NewTrapezoid()).Solve(acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	simp, err := New(m, integrators.NewSimpson()).Solve(acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !simp.Converged {
		t.Fatal("expected convergence with simpson")
	}
	if math.Abs(trap.Pressure-simp.Pressure) > 1e-3 {
		t.Errorf("quadratures disagree: %f vs %f", trap.Pressure, simp.Pressure)
	}
}

func TestInitialGuessOutsideHump(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)

	for _, p0 := range []float64{-10, 0, 1, 500} {
		cfg := DefaultConfig()
		cfg.InitialPressure = p0
		res, err := Solve(m, acetyleneIsotherm(300), cfg)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if !res.Converged {
			t.Errorf("P0=%g: expected convergence", p0)
		}
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name         string
		p, step      float64
		lo, hi, want float64
	}{
		{"inside", 10, 2, 0, 20, 12},
		{"overshoot high", 10, 50, 0, 20, 15},
		{"overshoot low", 10, -50, 4, 20, 7},
	}

	for _, tt := range tests {
		if got := adjust(tt.p, tt.step, tt.lo, tt.hi); got != tt.want {
			t.Errorf("%s: adjust = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestRecorderPressuresAt(t *testing.T) {
	s := New(eos.NewVanDerWaals(eos.Acetylene), nil)
	rec := NewRecorder()
	s.AddObserver(rec)

	first, err := s.Solve(acetyleneIsotherm(300), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	second, err := s.Solve(acetyleneIsotherm(310), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if got := rec.PressuresAt(300); len(got) != first.Iterations || got[len(got)-1] != first.Pressure {
		t.Errorf("300 K history: %d trials, want %d ending at %g", len(got), first.Iterations, first.Pressure)
	}
	if got := rec.PressuresAt(310); len(got) != second.Iterations {
		t.Errorf("310 K history: %d trials, want %d", len(got), second.Iterations)
	}
	if rec.PressuresAt(320) != nil {
		t.Error("unsolved temperature should have no history")
	}
}
