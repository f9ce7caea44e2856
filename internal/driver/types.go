package driver

import (
	"context"
	"fmt"

	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// Solver advances a displacement-controlled static analysis by one step.
type Solver interface {
	// Step imposes increment on the control degree of freedom and solves.
	Step(ctx context.Context, increment float64) error
	// Displacement returns the current control displacement.
	Displacement() float64
}

type Metric interface {
	Name() string
	Observe(st protocol.Step, disp float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(st protocol.Step, disp float64)
}

type Status int

const (
	Done Status = iota
	Incomplete
)

func (s Status) String() string {
	if s == Done {
		return "DONE"
	}
	return "PROBLEM INCOMPLETE"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result holds the history of one run.
type Result struct {
	Status        Status             `json:"status"`
	StepsTaken    int                `json:"steps_taken"`
	Final         float64            `json:"final"`
	Targets       []float64          `json:"targets"`
	Displacements []float64          `json:"displacements"`
	Metrics       map[string]float64 `json:"metrics"`
	Err           error              `json:"-"`
}

// Summary renders the status line printed at the end of a cyclic analysis.
func (r *Result) Summary(node, dof int, unit string) string {
	return fmt.Sprintf("%s Cyclic analysis: CtrlNode %.3d, dof %.1d, Disp=%.4f %s", r.Status, node, dof, r.Final, unit)
}
