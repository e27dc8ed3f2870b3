package config

import (
	"sort"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
)

var acetyleneIsotherm = IsothermConfig{VolumeMin: 0.06136, VolumeMax: 10, Samples: 10000}

var Presets = map[string]*Config{
	// single reference isotherm
	"acetylene-300": {
		Model: "vdw", Quadrature: "trapezoid", Substance: eos.Acetylene,
		Isotherm:     acetyleneIsotherm,
		Temperatures: []float64{300},
		Solver:       coexist.Config{Tolerance: 1e-5, InitialPressure: 39, Gain: 1.0, MaxIterations: 500},
		Plot:         PlotConfig{PressureMin: 0, PressureMax: 100, LogVolume: true},
	},
	// the family of isotherms around the critical temperature (~342.5 K)
	"acetylene-family": {
		Model: "vdw", Quadrature: "trapezoid", Substance: eos.Acetylene,
		Isotherm:     acetyleneIsotherm,
		Temperatures: []float64{250, 275, 308.3, 325, 350},
		Solver:       coexist.Config{Tolerance: 1e-5, InitialPressure: 30, Gain: 1.0, MaxIterations: 500},
		Plot:         PlotConfig{PressureMin: 0, PressureMax: 100, LogVolume: true},
	},
	// coarse and fast, for interactive use
	"acetylene-coarse": {
		Model: "vdw", Quadrature: "simpson", Substance: eos.Acetylene,
		Isotherm:     IsothermConfig{VolumeMin: 0.06136, VolumeMax: 10, Samples: 2000},
		Temperatures: []float64{300},
		Solver:       coexist.Config{Tolerance: 1e-3, InitialPressure: 30, Gain: 1.0, MaxIterations: 200},
		Plot:         PlotConfig{PressureMin: -5, PressureMax: 100},
	},
	// ideal gas reference: no coexistence region
	"ideal-300": {
		Model: "ideal", Quadrature: "trapezoid", Substance: eos.Acetylene,
		Isotherm:     acetyleneIsotherm,
		Temperatures: []float64{300},
		Solver:       coexist.DefaultConfig(),
		Plot:         PlotConfig{PressureMin: -5, PressureMax: 15},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
