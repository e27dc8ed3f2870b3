package coexist

import (
	"math"

	"github.com/san-kum/coexist/internal/eos"
)

const (
	DefaultTolerance       = 1e-5
	DefaultInitialPressure = 30.0
	DefaultGain            = 1.0
	DefaultMaxIterations   = 500
	DefaultSamples         = 10000
)

// Non-convergence reasons.
const (
	ReasonSupercritical  = "supercritical"
	ReasonNoPositiveHump = "no positive hump"
	ReasonNoCrossing     = "no crossing"
	ReasonMaxIterations  = "max iterations"
)

// Isotherm is the discretization of one temperature: the volume domain
// scanned for crossings and the number of subintervals used both for
// sampling and for each area integral.
type Isotherm struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	VolumeMin   float64 `yaml:"volume_min" json:"volume_min"`
	VolumeMax   float64 `yaml:"volume_max" json:"volume_max"`
	Samples     int     `yaml:"samples" json:"samples"`
}

// Config tunes the pressure feedback loop. Gain scales the area imbalance
// into a pressure correction. The imbalance falls by VGas-VLiquid per unit
// of pressure, so the loop settles only while Gain*(VGas-VLiquid) < 2; wide
// low-temperature isotherms need a gain well below 1.
type Config struct {
	Tolerance       float64 `yaml:"tolerance" json:"tolerance"`
	InitialPressure float64 `yaml:"initial_pressure" json:"initial_pressure"`
	Gain            float64 `yaml:"gain" json:"gain"`
	MaxIterations   int     `yaml:"max_iterations" json:"max_iterations"`
}

func DefaultConfig() Config {
	return Config{
		Tolerance:       DefaultTolerance,
		InitialPressure: DefaultInitialPressure,
		Gain:            DefaultGain,
		MaxIterations:   DefaultMaxIterations,
	}
}

// defaultSpacing is the sample spacing of the default domain, kept when
// the domain widens at low temperature.
const defaultSpacing = 10.0 / DefaultSamples

// DefaultIsotherm spans from just above the excluded volume to a dilute gas.
// Well below the critical temperature the domain widens to contain both
// estimated coexistence volumes, with samples added to keep the spacing.
func DefaultIsotherm(s eos.Substance, t float64) Isotherm {
	iso := Isotherm{
		Temperature: t,
		VolumeMin:   s.B + 0.01,
		VolumeMax:   10.0,
		Samples:     DefaultSamples,
	}
	if vl, vg, ok := eos.LowTemperatureVolumes(s, t); ok {
		iso.VolumeMin = s.B + math.Min(0.01, 0.5*(vl-s.B))
		iso.VolumeMax = math.Max(iso.VolumeMax, 4*vg)
		iso.Samples = max(DefaultSamples, int(math.Ceil((iso.VolumeMax-iso.VolumeMin)/defaultSpacing)))
	}
	return iso
}

// Result is the outcome of one construction. VLiquid < VGas always holds,
// including when Converged is false.
type Result struct {
	Temperature float64 `json:"temperature"`
	VLiquid     float64 `json:"v_liquid"`
	VGas        float64 `json:"v_gas"`
	Pressure    float64 `json:"pressure"`
	Residual    float64 `json:"residual"`
	Converged   bool    `json:"converged"`
	Iterations  int     `json:"iterations"`
	Reason      string  `json:"reason,omitempty"`
	// BoundaryExtrema is set on an isotherm without a usable hump when its
	// pressure maximum and minimum both sit on the ends of the domain, as
	// for any monotonic isotherm.
	BoundaryExtrema bool `json:"boundary_extrema,omitempty"`
}

// Iteration is the state observed after each area evaluation.
type Iteration struct {
	Index       int
	Temperature float64
	Pressure    float64
	VLiquid     float64
	VGas        float64
	AreaAbove   float64
	AreaBelow   float64
	Difference  float64
}

type Observer interface {
	OnIteration(it Iteration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(it Iteration)

func (f ObserverFunc) OnIteration(it Iteration) { f(it) }

func (iso Isotherm) atBoundary(v float64) bool {
	return v == iso.VolumeMin || v == iso.VolumeMax
}

func (iso Isotherm) validate(s eos.Substance) error {
	if err := s.Validate(); err != nil {
		return &ConfigError{Field: "substance", Value: 0, Err: err}
	}
	switch {
	case !(iso.Temperature > 0) || math.IsInf(iso.Temperature, 0):
		return &ConfigError{Field: "temperature", Value: iso.Temperature, Reason: "must be positive"}
	case iso.Samples < 1:
		return &ConfigError{Field: "samples", Value: float64(iso.Samples), Reason: "must be at least 1"}
	case !(iso.VolumeMin > s.B) || !(iso.VolumeMin > 0):
		return &ConfigError{Field: "volume_min", Value: iso.VolumeMin, Reason: "must exceed b"}
	case !(iso.VolumeMax > iso.VolumeMin) || math.IsInf(iso.VolumeMax, 0):
		return &ConfigError{Field: "volume_max", Value: iso.VolumeMax, Reason: "must exceed volume_min"}
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case !(c.Tolerance > 0):
		return &ConfigError{Field: "tolerance", Value: c.Tolerance, Reason: "must be positive"}
	case !(c.Gain > 0) || math.IsInf(c.Gain, 0):
		return &ConfigError{Field: "gain", Value: c.Gain, Reason: "must be positive"}
	case c.MaxIterations < 1:
		return &ConfigError{Field: "max_iterations", Value: float64(c.MaxIterations), Reason: "must be at least 1"}
	case !eos.IsDefined(c.InitialPressure):
		return &ConfigError{Field: "initial_pressure", Value: c.InitialPressure, Reason: "must be finite"}
	}
	return nil
}

// Validate checks iso and cfg against the substance of m.
func Validate(m eos.Model, iso Isotherm, cfg Config) error {
	if m == nil {
		return ErrNilModel
	}
	if err := iso.validate(m.Substance()); err != nil {
		return err
	}
	return cfg.validate()
}
