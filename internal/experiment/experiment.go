package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/config"
	"github.com/san-kum/coexist/internal/eos"
)

// Experiment binds a configuration to a ready solver.
type Experiment struct {
	cfg    *config.Config
	solver *coexist.Solver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry) error {
	m, err := r.GetModel(e.cfg.Model, e.cfg.Substance)
	if err != nil {
		return err
	}
	q, err := r.GetQuadrature(e.cfg.Quadrature)
	if err != nil {
		return err
	}
	e.solver = coexist.New(m, q)
	return nil
}

// Run solves every configured temperature.
func (e *Experiment) Run(ctx context.Context) ([]coexist.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if len(e.cfg.Temperatures) == 0 {
		return nil, fmt.Errorf("no temperatures configured")
	}
	return e.solver.SolveAll(ctx, e.cfg.Isotherms(), e.cfg.Solver, e.cfg.Workers)
}

// Solver returns the underlying solver for adding observers.
func (e *Experiment) Solver() *coexist.Solver {
	return e.solver
}

func (e *Experiment) Model() eos.Model {
	if e.solver == nil {
		return nil
	}
	return e.solver.Model()
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
