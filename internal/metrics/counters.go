package metrics

import (
	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// StepCount counts applied steps.
type StepCount struct {
	n int
}

func NewStepCount() *StepCount { return &StepCount{} }

func (s *StepCount) Name() string { return "steps" }

func (s *StepCount) Observe(st protocol.Step, disp float64) { s.n++ }

func (s *StepCount) Value() float64 { return float64(s.n) }

func (s *StepCount) Reset() { s.n = 0 }

// Reversals counts changes in the direction of the commanded increments.
// Zero increments carry no direction.
type Reversals struct {
	count int
	dir   int
}

func NewReversals() *Reversals { return &Reversals{} }

func (r *Reversals) Name() string { return "reversals" }

func (r *Reversals) Observe(st protocol.Step, disp float64) {
	var cur int
	switch {
	case st.Increment > 0:
		cur = 1
	case st.Increment < 0:
		cur = -1
	default:
		return
	}
	if r.dir != 0 && cur != r.dir {
		r.count++
	}
	r.dir = cur
}

func (r *Reversals) Value() float64 { return float64(r.count) }

func (r *Reversals) Reset() {
	r.count = 0
	r.dir = 0
}

// Defaults returns a fresh instance of every standard metric.
func Defaults() []driver.Metric {
	return []driver.Metric{
		NewStepCount(),
		NewMaxDisplacement(),
		NewMinDisplacement(),
		NewTravel(),
		NewReversals(),
		NewDrift(),
		NewClosure(),
	}
}
