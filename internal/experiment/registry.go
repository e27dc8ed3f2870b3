package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/integrators"
)

type Registry struct {
	models      map[string]func(eos.Substance) eos.Model
	quadratures map[string]func() integrators.Quadrature
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(eos.Substance) eos.Model),
		quadratures: make(map[string]func() integrators.Quadrature),
	}

	r.models["vdw"] = func(s eos.Substance) eos.Model { return eos.NewVanDerWaals(s) }
	r.models["ideal"] = func(s eos.Substance) eos.Model { return eos.NewIdealGas(s) }

	r.quadratures["trapezoid"] = integrators.NewTrapezoid
	r.quadratures["simpson"] = integrators.NewSimpson

	return r
}

func (r *Registry) GetModel(name string, s eos.Substance) (eos.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(s), nil
}

func (r *Registry) GetQuadrature(name string) (integrators.Quadrature, error) {
	fn, ok := r.quadratures[name]
	if !ok {
		return nil, fmt.Errorf("unknown quadrature: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListQuadratures() []string {
	return sortedKeys(r.quadratures)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
