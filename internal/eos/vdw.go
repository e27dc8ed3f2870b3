package eos

import "math"

type VanDerWaals struct {
	s Substance
}

func NewVanDerWaals(s Substance) *VanDerWaals {
	return &VanDerWaals{s: s}
}

func (m *VanDerWaals) Name() string         { return "vdw" }
func (m *VanDerWaals) Substance() Substance { return m.s }

func (m *VanDerWaals) Pressure(v, t float64) float64 {
	if v <= m.s.B || v <= 0 {
		return Undefined
	}
	return m.s.R*t/(v-m.s.B) - m.s.A/(v*v)
}

// CriticalPoint is the inflection point of the critical isotherm.
type CriticalPoint struct {
	T float64
	P float64
	V float64
}

// Critical returns the van der Waals critical constants of s:
// Tc = 8a/(27Rb), Pc = a/(27b^2), Vc = 3b.
func Critical(s Substance) CriticalPoint {
	return CriticalPoint{
		T: 8 * s.A / (27 * s.R * s.B),
		P: s.A / (27 * s.B * s.B),
		V: 3 * s.B,
	}
}

// Subcritical reports whether an isotherm at t has an unstable region.
func (c CriticalPoint) Subcritical(t float64) bool {
	return t > 0 && t < c.T
}

// LowTemperatureVolumes estimates the coexistence volumes of s well below
// the critical temperature, where the saturation pressure is close to zero.
// The liquid volume is the small root of P(V) = 0 and the vapor is treated
// as ideal with the chemical potential of that liquid. ok is false once
// P(V) = 0 has no root, from 27/32 Tc upward.
func LowTemperatureVolumes(s Substance, t float64) (vl, vg float64, ok bool) {
	d := s.A*s.A - 4*s.R*t*s.A*s.B
	if !(t > 0) || d < 0 {
		return 0, 0, false
	}
	vl = (s.A - math.Sqrt(d)) / (2 * s.R * t)
	if vl <= s.B {
		return 0, 0, false
	}
	lnVg := math.Log(vl-s.B) - s.B/(vl-s.B) + 2*s.A/(s.R*t*vl)
	return vl, math.Exp(lnVg), true
}
