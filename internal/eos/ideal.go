package eos

// IdealGas ignores a and b; only R is used.
type IdealGas struct {
	s Substance
}

func NewIdealGas(s Substance) *IdealGas {
	return &IdealGas{s: s}
}

func (m *IdealGas) Name() string         { return "ideal" }
func (m *IdealGas) Substance() Substance { return m.s }

func (m *IdealGas) Pressure(v, t float64) float64 {
	if v <= 0 {
		return Undefined
	}
	return m.s.R * t / v
}
