package driver_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/izzettinalhalil/pushover/internal/units"
)

var _ = Describe("Cyclic analysis of the three-storey frame", func() {
	var (
		sched *protocol.Schedule
		d     *driver.Driver
	)

	BeforeEach(func() {
		var err error
		sched, err = protocol.ExampleSeven(units.ExampleSevenBuilding(units.Imperial())).Build()
		Expect(err).NotTo(HaveOccurred())

		d = driver.New(driver.NewTrackingSolver(), nil)
		for _, m := range metrics.Defaults() {
			d.AddMetric(m)
		}
	})

	It("applies every step and finishes near zero", func() {
		r, err := d.Run(context.Background(), sched)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Status).To(Equal(driver.Done))
		Expect(r.StepsTaken).To(Equal(770))
		Expect(r.Final).To(BeNumerically("~", 0, 1e-12))
		Expect(r.Summary(141, 1, "inch")).To(Equal("DONE Cyclic analysis: CtrlNode 141, dof 1, Disp=0.0000 inch"))
	})

	It("reaches ten percent roof drift both ways", func() {
		r, err := d.Run(context.Background(), sched)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Metrics["max_displacement"]).To(BeNumerically("~", 43.2, 1e-9))
		Expect(r.Metrics["min_displacement"]).To(BeNumerically("~", -43.2, 1e-9))
		Expect(r.Metrics["steps"]).To(Equal(770.0))
		Expect(r.Metrics["travel"]).To(BeNumerically("~", 328.32, 1e-9))
	})

	It("reports the failing step and stops", func() {
		failing := driver.New(&driver.FailingSolver{Solver: driver.NewTrackingSolver(), FailAt: 30}, nil)
		r, err := failing.Run(context.Background(), sched)

		var stepErr *driver.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Index).To(Equal(30))
		Expect(stepErr.Peak).To(Equal(0.01))
		Expect(err).To(MatchError(driver.ErrNotConverged))

		Expect(r.Status).To(Equal(driver.Incomplete))
		Expect(r.StepsTaken).To(Equal(30))
		Expect(r.Summary(141, 1, "inch")).To(HavePrefix("PROBLEM INCOMPLETE Cyclic analysis"))
	})
})
