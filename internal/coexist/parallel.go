package coexist

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SolveAll solves independent isotherms concurrently with at most workers
// goroutines (GOMAXPROCS when workers <= 0). Results keep the input order.
// The first configuration error or context cancellation stops scheduling
// and is returned.
func (s *Solver) SolveAll(ctx context.Context, isos []Isotherm, cfg Config, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(isos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range isos {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Solve(isos[i], cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
