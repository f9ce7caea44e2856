package automation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

var ErrSweepRange = errors.New("automation: invalid sweep range")

// StepSweep runs one protocol at evenly spaced step sizes.
type StepSweep struct {
	Protocol protocol.Protocol
	StepMin  float64
	StepMax  float64
	NumSteps int
}

// StepSizes returns the swept step sizes, StepMin first.
func (sw *StepSweep) StepSizes() ([]float64, error) {
	if sw.NumSteps < 1 || sw.StepMin <= 0 || sw.StepMax < sw.StepMin {
		return nil, fmt.Errorf("%w: %g..%g in %d", ErrSweepRange, sw.StepMin, sw.StepMax, sw.NumSteps)
	}
	if sw.NumSteps == 1 {
		return []float64{sw.StepMin}, nil
	}
	sizes := make([]float64, sw.NumSteps)
	inc := (sw.StepMax - sw.StepMin) / float64(sw.NumSteps-1)
	for i := range sizes {
		sizes[i] = sw.StepMin + float64(i)*inc
	}
	return sizes, nil
}

// SweepResult summarizes the run at one step size.
type SweepResult struct {
	StepSize float64
	Steps    int
	Status   driver.Status
	Final    float64
	Max      float64
	Min      float64
	Drift    float64
}

// RunSweep builds a schedule per step size and runs them concurrently.
func RunSweep(ctx context.Context, sw *StepSweep, solvers driver.SolverFactory, log *zap.Logger) ([]SweepResult, error) {
	sizes, err := sw.StepSizes()
	if err != nil {
		return nil, err
	}
	if solvers == nil {
		solvers = func() driver.Solver { return driver.NewTrackingSolver() }
	}

	schedules := make([]*protocol.Schedule, len(sizes))
	for i, size := range sizes {
		p := sw.Protocol
		p.StepSize = size
		p.Name = fmt.Sprintf("%s@%g", sw.Protocol.Name, size)
		s, err := p.Build()
		if err != nil {
			return nil, fmt.Errorf("step size %g: %w", size, err)
		}
		schedules[i] = s
	}

	runs, err := driver.NewSweep(solvers, metrics.Defaults, log).Run(ctx, schedules)

	results := make([]SweepResult, 0, len(runs))
	for i, r := range runs {
		if r == nil {
			continue
		}
		results = append(results, SweepResult{
			StepSize: sizes[i],
			Steps:    r.StepsTaken,
			Status:   r.Status,
			Final:    r.Final,
			Max:      r.Metrics["max_displacement"],
			Min:      r.Metrics["min_displacement"],
			Drift:    r.Metrics["target_drift"],
		})
	}
	return results, err
}
