package driver

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// SolverFactory returns a fresh solver for one run.
type SolverFactory func() Solver

// MetricFactory returns fresh metrics for one run.
type MetricFactory func() []Metric

// Sweep runs several schedules concurrently.
type Sweep struct {
	solvers SolverFactory
	metrics MetricFactory
	log     *zap.Logger
}

func NewSweep(solvers SolverFactory, metrics MetricFactory, log *zap.Logger) *Sweep {
	return &Sweep{solvers: solvers, metrics: metrics, log: log}
}

// Run returns results in the order of schedules. Every run completes; the
// first error in input order is returned alongside all results.
func (sw *Sweep) Run(ctx context.Context, schedules []*protocol.Schedule) ([]*Result, error) {
	results := make([]*Result, len(schedules))
	errs := make([]error, len(schedules))

	var wg sync.WaitGroup
	for i, s := range schedules {
		wg.Add(1)
		go func(idx int, s *protocol.Schedule) {
			defer wg.Done()

			d := New(sw.solvers(), sw.log)
			if sw.metrics != nil {
				for _, m := range sw.metrics() {
					d.AddMetric(m)
				}
			}
			results[idx], errs[idx] = d.Run(ctx, s)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
