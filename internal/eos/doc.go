// Package eos provides pressure models for pure substances.
//
// A [Model] maps a molar volume and a temperature to a pressure:
//
//   - [VanDerWaals]: P = RT/(V-b) - a/V^2
//   - [IdealGas]: P = RT/V
//
// # Domain
//
// Outside the physical domain (V <= b for van der Waals, V <= 0 for both)
// a model returns [Undefined] instead of failing. Callers scanning a volume
// range close to the excluded volume filter such values with [IsDefined];
// they must never be treated as zero pressure.
//
//	m := eos.NewVanDerWaals(eos.Acetylene)
//	p := m.Pressure(0.5, 300)
//	if !eos.IsDefined(p) {
//	    // skip
//	}
package eos
