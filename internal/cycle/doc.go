// Package cycle generates target displacement sequences for cyclic
// displacement-controlled loading.
//
// A sequence always starts with two zero entries and then walks in steps of
// constant size towards the scaled peak and back, depending on the cycle type:
//
//   - [Push]: 0 -> +peak
//   - [Half]: 0 -> +peak -> 0
//   - [Full]: 0 -> +peak -> 0 -> -peak -> 0
//
// # Example
//
//	seq, err := cycle.Generate(cycle.Request{
//	    Peak:        2.0,
//	    StepSize:    0.02,
//	    Type:        cycle.Full,
//	    ScaleFactor: 1.5,
//	})
//	// len(seq) == 602
//
// # Numerics
//
// Targets are accumulated by repeated addition of the signed step, so long
// sequences carry floating-point drift (a Full cycle may end at 1e-16 rather
// than exactly zero). The drift is reproducible and kept on purpose: solver
// runs are compared against reference sequences bit for bit.
package cycle
