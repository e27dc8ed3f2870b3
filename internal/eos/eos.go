package eos

import (
	"errors"
	"fmt"
	"math"
)

// Undefined is the pressure reported for volumes outside a model's domain.
var Undefined = math.Inf(1)

// ErrDomain indicates non-physical substance parameters.
var ErrDomain = errors.New("eos: parameter outside physical domain")

// IsDefined reports whether p is a usable pressure (finite, not NaN).
func IsDefined(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0)
}

type Model interface {
	Pressure(v, t float64) float64
	Name() string
	Substance() Substance
}

// Substance holds the equation-of-state constants. Units follow the caller;
// the bundled values use L, bar, mol and K.
type Substance struct {
	Name string  `yaml:"name" json:"name"`
	A    float64 `yaml:"a" json:"a"`
	B    float64 `yaml:"b" json:"b"`
	R    float64 `yaml:"r" json:"r"`
}

// Acetylene is the reference substance (C2H2).
var Acetylene = Substance{Name: "acetylene", A: 4.936, B: 0.05136, R: 0.08314}

func (s Substance) Validate() error {
	switch {
	case !(s.A > 0):
		return fmt.Errorf("%w: a=%g", ErrDomain, s.A)
	case !(s.B > 0):
		return fmt.Errorf("%w: b=%g", ErrDomain, s.B)
	case !(s.R > 0):
		return fmt.Errorf("%w: R=%g", ErrDomain, s.R)
	}
	return nil
}
