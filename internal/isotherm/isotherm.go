// Package isotherm generates (V, P) samples of a pressure model at fixed
// temperature. Sequences are lazy and restartable: ranging over the same
// sequence twice recomputes identical samples.
package isotherm

import (
	"iter"

	"github.com/san-kum/coexist/internal/eos"
	"gonum.org/v1/gonum/floats"
)

type Sample struct {
	V float64
	P float64
}

// Samples yields n+1 evenly spaced volumes over [vmin, vmax] with their
// pressures at temperature t. Sentinel pressures are passed through.
func Samples(m eos.Model, t, vmin, vmax float64, n int) iter.Seq[Sample] {
	if n < 1 {
		n = 1
	}
	h := (vmax - vmin) / float64(n)
	return func(yield func(Sample) bool) {
		for i := 0; i <= n; i++ {
			v := vmin + float64(i)*h
			if i == n {
				v = vmax
			}
			if !yield(Sample{V: v, P: m.Pressure(v, t)}) {
				return
			}
		}
	}
}

// Defined drops samples carrying the undefined pressure sentinel.
func Defined(seq iter.Seq[Sample]) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for s := range seq {
			if !eos.IsDefined(s.P) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Window keeps samples with pmin <= P <= pmax.
func Window(seq iter.Seq[Sample], pmin, pmax float64) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for s := range seq {
			if s.P < pmin || s.P > pmax {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

func Collect(seq iter.Seq[Sample]) []Sample {
	out := make([]Sample, 0, 64)
	for s := range seq {
		out = append(out, s)
	}
	return out
}

// Split returns the volumes and pressures of samples as parallel slices.
func Split(samples []Sample) (vs, ps []float64) {
	vs = make([]float64, len(samples))
	ps = make([]float64, len(samples))
	for i, s := range samples {
		vs[i] = s.V
		ps[i] = s.P
	}
	return vs, ps
}

// Grid returns n+1 evenly spaced volumes over [vmin, vmax].
func Grid(vmin, vmax float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	return floats.Span(make([]float64, n+1), vmin, vmax)
}

// LogGrid returns n+1 logarithmically spaced volumes over [vmin, vmax].
// Both bounds must be positive.
func LogGrid(vmin, vmax float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	return floats.LogSpan(make([]float64, n+1), vmin, vmax)
}

// AtVolumes evaluates m at the given volumes.
func AtVolumes(m eos.Model, t float64, vs []float64) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for _, v := range vs {
			if !yield(Sample{V: v, P: m.Pressure(v, t)}) {
				return
			}
		}
	}
}
