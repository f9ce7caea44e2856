package driver

import (
	"context"

	"go.uber.org/zap"

	"github.com/izzettinalhalil/pushover/internal/logging"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

type Driver struct {
	solver    Solver
	log       *zap.Logger
	metrics   []Metric
	observers []Observer
}

func New(solver Solver, log *zap.Logger) *Driver {
	return &Driver{
		solver:    solver,
		log:       logging.OrNop(log),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run applies every increment of s in order. A solver failure stops the run
// and is returned both as the error and in Result.Err; the partial history is
// kept. Context cancellation returns ctx.Err with the partial result.
func (d *Driver) Run(ctx context.Context, s *protocol.Schedule) (*Result, error) {
	if s == nil {
		return nil, ErrNoSchedule
	}

	result := &Result{
		Status:        Done,
		Targets:       make([]float64, 0, s.Len()),
		Displacements: make([]float64, 0, s.Len()),
		Metrics:       make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	d.log.Info("cyclic analysis started",
		zap.String("protocol", s.Protocol.Name),
		zap.Int("peaks", len(s.Protocol.Peaks)),
		zap.Int("steps", s.Len()),
	)

	lastPeak := -1
	for _, st := range s.Steps {
		select {
		case <-ctx.Done():
			result.Status = Incomplete
			result.Err = ctx.Err()
			d.finish(result)
			return result, ctx.Err()
		default:
		}

		if st.PeakIndex != lastPeak {
			d.log.Debug("peak started", zap.Int("peak_index", st.PeakIndex), zap.Float64("peak", st.Peak))
			lastPeak = st.PeakIndex
		}

		if err := d.solver.Step(ctx, st.Increment); err != nil {
			stepErr := &StepError{
				Index:  st.Index,
				Peak:   st.Peak,
				Cycle:  st.Cycle,
				Target: st.Target,
				Err:    err,
			}
			d.log.Warn("analysis step failed", zap.Error(stepErr))
			result.Status = Incomplete
			result.Err = stepErr
			d.finish(result)
			return result, stepErr
		}

		disp := d.solver.Displacement()
		for _, m := range d.metrics {
			m.Observe(st, disp)
		}
		for _, obs := range d.observers {
			obs.OnStep(st, disp)
		}

		result.Targets = append(result.Targets, st.Target)
		result.Displacements = append(result.Displacements, disp)
		result.StepsTaken++
	}

	d.finish(result)
	d.log.Info("cyclic analysis finished",
		zap.Stringer("status", result.Status),
		zap.Int("steps", result.StepsTaken),
		zap.Float64("final", result.Final),
	)
	return result, nil
}

func (d *Driver) finish(result *Result) {
	result.Final = d.solver.Displacement()
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
