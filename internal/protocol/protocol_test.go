package protocol_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/izzettinalhalil/pushover/internal/units"
)

var _ = Describe("Protocol", func() {
	var p protocol.Protocol

	BeforeEach(func() {
		p = protocol.Protocol{
			Name:        "test",
			Peaks:       []float64{1.0, -0.5},
			StepSize:    0.1,
			Type:        cycle.Half,
			ScaleFactor: 1,
			Cycles:      1,
		}
	})

	Describe("Validate", func() {
		It("accepts a well formed protocol", func() {
			Expect(p.Validate()).To(Succeed())
		})

		It("rejects an empty peak list", func() {
			p.Peaks = nil
			Expect(p.Validate()).To(MatchError(protocol.ErrNoPeaks))
		})

		It("rejects zero cycles", func() {
			p.Cycles = 0
			Expect(p.Validate()).To(MatchError(protocol.ErrCycles))
		})

		It("propagates the zero step fault", func() {
			p.StepSize = 0
			Expect(p.Validate()).To(MatchError(cycle.ErrZeroStep))
		})

		It("rejects unknown cycle types", func() {
			p.Type = cycle.Type(12)
			Expect(p.Validate()).To(MatchError(cycle.ErrUnknownType))
		})

		It("propagates the per cycle limit", func() {
			p.Peaks = []float64{1e30}
			p.StepSize = 0.01
			Expect(p.Validate()).To(MatchError(cycle.ErrTooManySteps))
		})

		It("caps the total step count across peaks and cycles", func() {
			p.Peaks = []float64{1000, 1000}
			p.StepSize = 0.001
			p.Cycles = 10
			Expect(p.Validate()).To(MatchError(protocol.ErrTooManySteps))
		})

		It("reports the built length", func() {
			p.Cycles = 3
			n, err := p.TotalSteps()
			Expect(err).NotTo(HaveOccurred())
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(s.Len()))
		})

		It("does not overflow on huge cycle counts", func() {
			p.Cycles = math.MaxInt
			Expect(p.Validate()).To(MatchError(protocol.ErrTooManySteps))

			_, err := p.Build()
			Expect(err).To(MatchError(protocol.ErrTooManySteps))
		})
	})

	Describe("Build", func() {
		It("concatenates one sequence per peak", func() {
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sequences).To(HaveLen(2))
			Expect(s.Len()).To(Equal(22 + 12))
			Expect(s.Steps[0].Target).To(Equal(0.0))
			Expect(s.Steps[22].PeakIndex).To(Equal(1))
			Expect(s.Steps[22].Target).To(Equal(0.0))
			Expect(s.Steps[24].Target).To(BeNumerically("~", -0.1, 1e-12))
		})

		It("numbers steps consecutively", func() {
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())
			for i, st := range s.Steps {
				Expect(st.Index).To(Equal(i))
			}
		})

		It("resets the increment baseline at every cycle", func() {
			p.Peaks = []float64{0.3}
			p.Type = cycle.Push
			p.Cycles = 2
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())

			// push to 0.2 twice: the second cycle starts again from zero
			Expect(s.Len()).To(Equal(8))
			Expect(s.Increments()).To(Equal([]float64{0, 0, 0.1, 0.1, 0, 0, 0.1, 0.1}))
			Expect(s.Steps[4].Cycle).To(Equal(2))
		})

		It("reports a segment per peak and cycle", func() {
			p.Cycles = 3
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())

			segs := s.Segments()
			Expect(segs).To(HaveLen(6))
			Expect(segs[0].Start).To(Equal(0))
			Expect(segs[0].End).To(Equal(22))
			Expect(segs[3].PeakIndex).To(Equal(1))
			Expect(segs[3].Cycle).To(Equal(1))
			Expect(segs[5].End).To(Equal(s.Len()))
			Expect(segs[0].Max).To(BeNumerically("~", 1.0, 1e-12))
			Expect(segs[3].Min).To(BeNumerically("~", -0.5, 1e-12))
		})

		It("keeps targets and increments consistent within a cycle", func() {
			s, err := p.Build()
			Expect(err).NotTo(HaveOccurred())
			targets := s.Targets()
			incs := s.Increments()
			for _, seg := range s.Segments() {
				prev := 0.0
				for i := seg.Start; i < seg.End; i++ {
					Expect(incs[i]).To(Equal(targets[i] - prev))
					prev = targets[i]
				}
			}
		})

		It("does not build an invalid protocol", func() {
			p.StepSize = -1
			s, err := p.Build()
			Expect(err).To(MatchError(cycle.ErrInvalidStep))
			Expect(s).To(BeNil())
		})
	})

	Describe("ExampleSeven", func() {
		It("scales drift ratios by the building height", func() {
			ex := protocol.ExampleSeven(units.ExampleSevenBuilding(units.Imperial()))
			Expect(ex.ScaleFactor).To(Equal(432.0))
			Expect(ex.StepSize).To(Equal(0.432))
			Expect(ex.Type).To(Equal(cycle.Full))

			s, err := ex.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(22 + 42 + 102 + 202 + 402))

			last := s.Segments()[4]
			Expect(last.Max).To(Equal(43.20000000000002))
			Expect(last.Min).To(Equal(-43.20000000000001))
		})

		It("does not share the peak list", func() {
			ex := protocol.ExampleSeven(units.ExampleSevenBuilding(units.Imperial()))
			ex.Peaks[0] = 1
			Expect(protocol.ExampleSevenPeaks[0]).To(Equal(0.005))
		})
	})
})
