package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
)

func TestTemperatures(t *testing.T) {
	ts := Temperatures(250, 340, 4)
	expected := []float64{250, 280, 310, 340}
	for i := range expected {
		if math.Abs(ts[i]-expected[i]) > 1e-9 {
			t.Errorf("temps[%d] = %f, want %f", i, ts[i], expected[i])
		}
	}
	if len(Temperatures(300, 400, 1)) != 1 {
		t.Error("expected a single temperature")
	}
}

func TestSweepBinodal(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	s := coexist.New(m, nil)
	tc := eos.Critical(eos.Acetylene).T

	temps := append(Temperatures(260, 335, 6), tc+5)
	results, err := Sweep(context.Background(), s, coexist.DefaultIsotherm(eos.Acetylene, 0), temps, coexist.DefaultConfig(), 0)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != len(temps) {
		t.Fatalf("expected %d results, got %d", len(temps), len(results))
	}
	if results[len(results)-1].Converged {
		t.Error("supercritical point should not converge")
	}

	conv := Converged(results)
	if len(conv) != 6 {
		t.Fatalf("expected 6 converged points, got %d", len(conv))
	}
	if !GapMonotonic(results) {
		t.Error("expected gap to shrink with temperature")
	}

	vs, ps := Binodal(results)
	if len(vs) != 12 || len(ps) != 12 {
		t.Fatalf("expected 12 binodal points, got %d", len(vs))
	}
	if vs[0] >= vs[len(vs)-1] {
		t.Error("binodal should start on the liquid side and end on the vapor side")
	}

	for _, r := range conv {
		if res := Residual(m, r, DefaultResidualPoints); math.Abs(res) > 10*coexist.DefaultTolerance {
			t.Errorf("T=%.1f: residual %g too large", r.Temperature, res)
		}
	}
}

func TestGapMonotonicDetectsViolation(t *testing.T) {
	results := []coexist.Result{
		{Temperature: 280, VLiquid: 0.08, VGas: 0.5, Converged: true},
		{Temperature: 300, VLiquid: 0.09, VGas: 0.6, Converged: true},
	}
	if GapMonotonic(results) {
		t.Error("expected violation to be detected")
	}
}

func TestResidualDegenerate(t *testing.T) {
	m := eos.NewVanDerWaals(eos.Acetylene)
	if r := Residual(m, coexist.Result{VLiquid: 0.3, VGas: 0.3}, 100); r != 0 {
		t.Errorf("expected 0 for empty interval, got %f", r)
	}

	// an interval reaching into the excluded volume stays finite
	r := Residual(m, coexist.Result{Temperature: 300, VLiquid: 0, VGas: 0.5, Pressure: 40}, 1001)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		t.Errorf("expected finite residual, got %f", r)
	}
}
