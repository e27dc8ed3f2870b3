package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/config"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the flags shared by every command that solves.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&temps, "temps", "", "comma separated temperatures, e.g. 250,275,300")
	f.StringVar(&modelName, "model", config.DefaultModel, "equation of state (vdw, ideal)")
	f.StringVar(&quadName, "quadrature", config.DefaultQuadrature, "quadrature rule (trapezoid, simpson)")
	f.Float64Var(&vmin, "vmin", 0, "lowest volume of the isotherm domain")
	f.Float64Var(&vmax, "vmax", config.DefaultVolumeMax, "highest volume of the isotherm domain")
	f.IntVar(&samples, "samples", coexist.DefaultSamples, "samples per isotherm")
	f.Float64Var(&tolerance, "tol", coexist.DefaultTolerance, "equal-area tolerance")
	f.Float64Var(&p0, "p0", coexist.DefaultInitialPressure, "initial pressure guess")
	f.Float64Var(&gain, "gain", coexist.DefaultGain, "pressure feedback gain")
	f.IntVar(&maxIter, "max-iter", coexist.DefaultMaxIterations, "iteration limit")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "concurrent isotherms (0 = GOMAXPROCS)")
}

// loadConfig resolves defaults, then preset, then config file, then any
// flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("temps") {
		ts, err := parseFloats(temps)
		if err != nil {
			return nil, fmt.Errorf("--temps: %w", err)
		}
		cfg.Temperatures = ts
	}
	if f.Changed("model") {
		cfg.Model = modelName
	}
	if f.Changed("quadrature") {
		cfg.Quadrature = quadName
	}
	if f.Changed("vmin") {
		cfg.Isotherm.VolumeMin = vmin
	}
	if f.Changed("vmax") {
		cfg.Isotherm.VolumeMax = vmax
	}
	if f.Changed("samples") {
		cfg.Isotherm.Samples = samples
	}
	if f.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if f.Changed("p0") {
		cfg.Solver.InitialPressure = p0
	}
	if f.Changed("gain") {
		cfg.Solver.Gain = gain
	}
	if f.Changed("max-iter") {
		cfg.Solver.MaxIterations = maxIter
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
