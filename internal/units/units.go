// Package units holds the engineering unit system used to scale drift ratios
// into displacements. Values are plain data and never change after
// construction.
package units

import "math"

// System is a consistent set of units expressed in its own base units.
type System struct {
	// Base units
	Inch float64
	Kip  float64
	Sec  float64

	LengthLabel string
	ForceLabel  string
	TimeLabel   string

	// Derived units
	Ft  float64
	Ksi float64
	Psi float64
	Lbf float64 // pound force
	Pcf float64 // pound per cubic foot
	Psf float64 // pound per square foot
	In2 float64
	In4 float64
	Cm  float64
	G   float64 // gravitational acceleration

	Big   float64
	Small float64
}

// Imperial returns the inch-kip-second system.
func Imperial() System {
	inch, kip, sec := 1.0, 1.0, 1.0

	ft := 12.0 * inch
	ksi := kip / math.Pow(inch, 2)
	psi := ksi / 1000.0
	lbf := psi * inch * inch

	return System{
		Inch:        inch,
		Kip:         kip,
		Sec:         sec,
		LengthLabel: "inch",
		ForceLabel:  "kip",
		TimeLabel:   "sec",
		Ft:          ft,
		Ksi:         ksi,
		Psi:         psi,
		Lbf:         lbf,
		Pcf:         lbf / math.Pow(ft, 3),
		Psf:         lbf / math.Pow(ft, 2),
		In2:         inch * inch,
		In4:         inch * inch * inch * inch,
		Cm:          inch / 2.54,
		G:           32.2 * ft / math.Pow(sec, 2),
		Big:         1e10,
		Small:       1e-10,
	}
}

// Convert re-expresses value given in unit from as a multiple of unit to.
// Both units must belong to the same System.
func Convert(value, from, to float64) float64 {
	return value * from / to
}
