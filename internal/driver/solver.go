package driver

import (
	"context"
	"sync"
)

// TrackingSolver applies each increment exactly. It stands in for the
// analysis engine in dry runs.
type TrackingSolver struct {
	disp float64
}

func NewTrackingSolver() *TrackingSolver { return &TrackingSolver{} }

func (s *TrackingSolver) Step(ctx context.Context, increment float64) error {
	s.disp += increment
	return nil
}

func (s *TrackingSolver) Displacement() float64 { return s.disp }

// FailingSolver wraps a solver and fails every step from FailAt on.
type FailingSolver struct {
	Solver
	FailAt int
	Err    error

	mu    sync.Mutex
	steps int
}

func (s *FailingSolver) Step(ctx context.Context, increment float64) error {
	s.mu.Lock()
	n := s.steps
	s.steps++
	s.mu.Unlock()

	if n >= s.FailAt {
		if s.Err != nil {
			return s.Err
		}
		return ErrNotConverged
	}
	return s.Solver.Step(ctx, increment)
}
