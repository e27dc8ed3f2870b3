// Package integrators provides composite quadrature rules over a volume
// interval.
//
//   - [Trapezoid]: composite trapezoidal rule, O(h^2)
//   - [Simpson]: composite Simpson rule, O(h^4)
//
// Both rules exclude nodes where the integrand is not finite: every
// subinterval (or Simpson panel) touching such a node contributes nothing.
// [TrapezoidRaw] keeps the textbook formula without exclusion.
package integrators
