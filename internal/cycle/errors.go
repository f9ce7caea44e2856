package cycle

import "errors"

var (
	// ErrZeroStep is returned for a zero step size, which would divide by zero
	// when counting the steps to the peak.
	ErrZeroStep = errors.New("cycle: step size is zero")

	// ErrInvalidStep indicates a negative, NaN or infinite step size.
	ErrInvalidStep = errors.New("cycle: step size must be positive and finite")

	// ErrInvalidPeak indicates a scaled peak that is NaN or infinite.
	ErrInvalidPeak = errors.New("cycle: peak displacement is not finite")

	// ErrTooManySteps indicates a cycle longer than MaxSequenceLength.
	ErrTooManySteps = errors.New("cycle: too many steps")

	// ErrUnknownType indicates a cycle type outside Push, Half and Full.
	ErrUnknownType = errors.New("cycle: unknown cycle type")
)
