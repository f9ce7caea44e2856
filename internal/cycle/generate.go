package cycle

import (
	"fmt"
	"math"
)

const (
	DefaultStepSize    = 0.01
	DefaultType        = Full
	DefaultScaleFactor = 1.0

	// MaxSequenceLength bounds the length of one generated cycle,
	// seed included.
	MaxSequenceLength = 1 << 24
)

// Request holds the inputs of one generated cycle.
type Request struct {
	Peak        float64 // signed; the sign sets the initial direction
	StepSize    float64 // absolute increment magnitude
	Type        Type
	ScaleFactor float64 // applied to Peak before generation
}

// DefaultRequest returns a Full cycle to peak with a 0.01 step and no scaling.
func DefaultRequest(peak float64) Request {
	return Request{
		Peak:        peak,
		StepSize:    DefaultStepSize,
		Type:        DefaultType,
		ScaleFactor: DefaultScaleFactor,
	}
}

// EffectivePeak is Peak scaled by ScaleFactor.
func (r Request) EffectivePeak() float64 {
	// explicit conversion keeps the product rounded before any later use
	return float64(r.Peak * r.ScaleFactor)
}

func (r Request) validate() error {
	switch {
	case r.StepSize == 0:
		return ErrZeroStep
	case r.StepSize < 0, math.IsNaN(r.StepSize), math.IsInf(r.StepSize, 0):
		return ErrInvalidStep
	}
	eff := r.EffectivePeak()
	if math.IsNaN(eff) || math.IsInf(eff, 0) {
		return ErrInvalidPeak
	}
	if !r.Type.Valid() {
		return ErrUnknownType
	}
	// compare as floats first so the int conversion cannot overflow
	ratio := math.Abs(eff) / r.StepSize
	if !(ratio < MaxSequenceLength) {
		return fmt.Errorf("%w: %g steps to peak", ErrTooManySteps, ratio)
	}
	if n := peakSteps(r); 2+n*r.Type.Phases() > MaxSequenceLength {
		return fmt.Errorf("%w: %d steps per cycle, limit %d", ErrTooManySteps, 2+n*r.Type.Phases(), MaxSequenceLength)
	}
	return nil
}

// PeakSteps is the number of whole steps from zero to the scaled peak.
// Any remainder smaller than one step is dropped.
func PeakSteps(r Request) (int, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	return peakSteps(r), nil
}

func peakSteps(r Request) int {
	return int(math.Abs(r.EffectivePeak()) / r.StepSize)
}

// Generate builds the cumulative target displacements for one cycle.
func Generate(r Request) (Sequence, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	dx := r.StepSize
	if r.EffectivePeak() < 0 {
		dx = -r.StepSize
	}
	n := peakSteps(r)

	seq := make(Sequence, 2, 2+n*r.Type.Phases())
	disp := 0.0

	for i := 0; i < n; i++ {
		disp += dx
		seq = append(seq, disp)
	}

	if r.Type != Push {
		for i := 0; i < n; i++ {
			disp -= dx
			seq = append(seq, disp)
		}

		if r.Type == Full {
			for i := 0; i < n; i++ {
				disp -= dx
				seq = append(seq, disp)
			}
			for i := 0; i < n; i++ {
				disp += dx
				seq = append(seq, disp)
			}
		}
	}

	return seq, nil
}

// MustGenerate is like Generate but panics on an invalid request.
func MustGenerate(r Request) Sequence {
	seq, err := Generate(r)
	if err != nil {
		panic(err)
	}
	return seq
}
