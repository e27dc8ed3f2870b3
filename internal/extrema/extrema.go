// Package extrema scans sampled isotherms for pressure extrema.
//
// [Find] returns the global maximum and minimum over the defined samples.
// [FindHump] locates the interior local minimum and the following local
// maximum of a sub-critical van der Waals isotherm, which bound the region
// where a horizontal pressure line crosses the curve three times.
package extrema

import (
	"errors"
	"iter"
	"math"

	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/isotherm"
)

var ErrNoSamples = errors.New("extrema: no defined samples")

type Extrema struct {
	VAtMax float64
	PMax   float64
	VAtMin float64
	PMin   float64
}

// Find returns the samples with maximal and minimal pressure. Undefined
// pressures never participate. Ties keep the first sample.
func Find(seq iter.Seq[isotherm.Sample]) (Extrema, error) {
	e := Extrema{PMax: math.Inf(-1), PMin: math.Inf(1)}
	found := false
	for s := range seq {
		if !eos.IsDefined(s.P) {
			continue
		}
		found = true
		if s.P > e.PMax {
			e.VAtMax, e.PMax = s.V, s.P
		}
		if s.P < e.PMin {
			e.VAtMin, e.PMin = s.V, s.P
		}
	}
	if !found {
		return Extrema{}, ErrNoSamples
	}
	return e, nil
}

// Hump is the unstable region of an isotherm: pressure rises from a local
// minimum at VLocalMin to a local maximum at VLocalMax.
type Hump struct {
	VLocalMin float64
	PLocalMin float64
	VLocalMax float64
	PLocalMax float64
}

// FindHump returns the first interior local minimum and the local maximum
// that follows it. The second result is false for monotonic isotherms.
func FindHump(seq iter.Seq[isotherm.Sample]) (Hump, bool) {
	var (
		h       Hump
		prev    isotherm.Sample
		havePrv bool
		falling bool
		haveMin bool
	)
	for s := range seq {
		if !eos.IsDefined(s.P) {
			continue
		}
		if !havePrv {
			prev, havePrv = s, true
			continue
		}
		switch {
		case s.P < prev.P:
			if haveMin && !falling {
				// rising then falling: prev is the local max
				h.VLocalMax, h.PLocalMax = prev.V, prev.P
				return h, h.PLocalMax > h.PLocalMin
			}
			falling = true
		case s.P > prev.P:
			if falling && !haveMin {
				h.VLocalMin, h.PLocalMin = prev.V, prev.P
				haveMin = true
			}
			falling = false
		}
		prev = s
	}
	return Hump{}, false
}
