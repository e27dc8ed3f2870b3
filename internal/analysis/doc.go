// Package analysis provides checks and sweeps built on the coexistence
// solver:
//
//   - [Sweep]: coexistence curve over a range of temperatures
//   - [Residual]: equal-area residual recomputed on a fine grid
//   - [GapMonotonic]: whether the two-phase gap closes toward Tc
//
// # Binodal
//
// The converged points of a sweep trace the binodal (coexistence) curve:
//
//	pts, _ := analysis.Sweep(ctx, solver, base, analysis.Temperatures(250, 340, 10), cfg, 0)
//	for _, p := range pts {
//	    fmt.Println(p.Temperature, p.VLiquid, p.VGas, p.Pressure)
//	}
package analysis
