package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/coexist/internal/coexist"
)

// Parameters the search can vary.
const (
	ParamGain            = "gain"
	ParamInitialPressure = "initial_pressure"
	ParamTolerance       = "tolerance"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Result coexist.Result
}

// Search solves iso for every combination of parameter values applied on
// top of base and returns the converged combination with the fewest
// iterations. Ties keep the first combination in grid order.
func (g *GridSearch) Search(ctx context.Context, s *coexist.Solver, iso coexist.Isotherm, base coexist.Config) (Candidate, []Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Candidate{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, err := Apply(base, name, 0); err != nil {
			return Candidate{}, nil, err
		}
	}

	all := make([]Candidate, 0)
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), s, iso, base, &all); err != nil {
		return Candidate{}, all, err
	}

	best := Candidate{}
	bestIters := math.MaxInt
	for _, c := range all {
		if c.Result.Converged && c.Result.Iterations < bestIters {
			best, bestIters = c, c.Result.Iterations
		}
	}
	if best.Params == nil {
		return Candidate{}, all, fmt.Errorf("optim: no converged combination among %d", len(all))
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	s *coexist.Solver,
	iso coexist.Isotherm,
	base coexist.Config,
	all *[]Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base
		for name, val := range current {
			cfg, _ = Apply(cfg, name, val)
		}

		res, err := s.Solve(iso, cfg)
		if err != nil {
			// invalid combinations (e.g. zero gain) are skipped
			return nil
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*all = append(*all, Candidate{Params: params, Result: res})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, s, iso, base, all); err != nil {
			return err
		}
	}
	return nil
}

// Apply sets the named solver parameter.
func Apply(cfg coexist.Config, name string, val float64) (coexist.Config, error) {
	switch name {
	case ParamGain:
		cfg.Gain = val
	case ParamInitialPressure:
		cfg.InitialPressure = val
	case ParamTolerance:
		cfg.Tolerance = val
	default:
		return cfg, fmt.Errorf("optim: unknown parameter %q", name)
	}
	return cfg, nil
}
