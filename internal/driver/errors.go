package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSchedule indicates Run was called without a schedule.
	ErrNoSchedule = errors.New("driver: no schedule")

	// ErrNotConverged is the conventional failure of a solver step.
	ErrNotConverged = errors.New("driver: analysis step did not converge")
)

// StepError wraps a solver failure with its position in the schedule.
type StepError struct {
	Index  int
	Peak   float64
	Cycle  int
	Target float64
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (peak %g, cycle %d, target %.6f): %v", e.Index, e.Peak, e.Cycle, e.Target, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
