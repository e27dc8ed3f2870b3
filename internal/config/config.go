package config

import (
	"os"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "vdw"
	DefaultQuadrature  = "trapezoid"
	DefaultTemperature = 300.0
	DefaultVolumeMax   = 10.0
	DefaultWorkers     = 0
)

type Config struct {
	Model        string         `yaml:"model"`
	Quadrature   string         `yaml:"quadrature"`
	Substance    eos.Substance  `yaml:"substance"`
	Isotherm     IsothermConfig `yaml:"isotherm"`
	Temperatures []float64      `yaml:"temperatures"`
	Solver       coexist.Config `yaml:"solver"`
	Workers      int            `yaml:"workers"`
	Plot         PlotConfig     `yaml:"plot"`
}

// IsothermConfig is the volume discretization shared by every temperature.
type IsothermConfig struct {
	VolumeMin float64 `yaml:"volume_min"`
	VolumeMax float64 `yaml:"volume_max"`
	Samples   int     `yaml:"samples"`
}

// PlotConfig bounds the visible window of rendered isotherms.
type PlotConfig struct {
	PressureMin float64 `yaml:"pressure_min"`
	PressureMax float64 `yaml:"pressure_max"`
	LogVolume   bool    `yaml:"log_volume"`
	Ideal       bool    `yaml:"ideal"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Quadrature: DefaultQuadrature,
		Substance:  eos.Acetylene,
		Isotherm: IsothermConfig{
			VolumeMin: eos.Acetylene.B + 0.01,
			VolumeMax: DefaultVolumeMax,
			Samples:   coexist.DefaultSamples,
		},
		Temperatures: []float64{DefaultTemperature},
		Solver:       coexist.DefaultConfig(),
		Workers:      DefaultWorkers,
		Plot: PlotConfig{
			PressureMin: 0,
			PressureMax: 100,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Isotherms expands the configured temperatures into solver isotherms.
func (c *Config) Isotherms() []coexist.Isotherm {
	isos := make([]coexist.Isotherm, len(c.Temperatures))
	for i, t := range c.Temperatures {
		isos[i] = c.IsothermAt(t)
	}
	return isos
}

func (c *Config) IsothermAt(t float64) coexist.Isotherm {
	return coexist.Isotherm{
		Temperature: t,
		VolumeMin:   c.Isotherm.VolumeMin,
		VolumeMax:   c.Isotherm.VolumeMax,
		Samples:     c.Isotherm.Samples,
	}
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Temperatures = append([]float64(nil), c.Temperatures...)
	return &cp
}
