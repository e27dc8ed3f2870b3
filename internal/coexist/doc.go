// Package coexist locates liquid-vapor coexistence on a van der Waals
// isotherm with the Maxwell equal-area construction.
//
// The solver refines a trial saturation pressure P until the area the
// isotherm encloses above P between the two coexistence volumes equals the
// area it encloses below P:
//
//   - sample the isotherm and bracket its unstable region ([extrema.Hump])
//   - bisect the liquid branch (V < local min) and the vapor branch
//     (V > local max) for the volumes where P(V) equals the trial pressure
//   - integrate max(0, P(V)-P) and max(0, P-P(V)) over [V1, V2]
//   - correct the trial pressure by Gain * (above - below)
//
// # Example
//
//	m := eos.NewVanDerWaals(eos.Acetylene)
//	iso := coexist.Isotherm{Temperature: 300, VolumeMin: 0.06136, VolumeMax: 10, Samples: 10000}
//	res, err := coexist.Solve(m, iso, coexist.DefaultConfig())
//
// # Failure modes
//
// Invalid input is rejected with a [*ConfigError] before iterating. A run
// that cannot balance the areas is not an error: [Result.Converged] is
// false and [Result.Reason] says why, with the best estimate still filled
// in.
//
// # Thread Safety
//
// A Solver holds no per-run state, but observers are invoked synchronously
// from Solve and must be safe for concurrent use when the Solver is shared
// across goroutines (see [SolveAll]).
package coexist
