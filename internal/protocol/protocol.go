// Package protocol expands a list of peak drifts into the full step schedule
// of a cyclic pushover analysis.
package protocol

import (
	"errors"
	"fmt"
	"math"

	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/units"
)

var (
	ErrNoPeaks      = errors.New("protocol: no peak displacements")
	ErrCycles       = errors.New("protocol: cycles per peak must be at least 1")
	ErrScaleFactor  = errors.New("protocol: scale factor must be finite")
	ErrTooManySteps = errors.New("protocol: too many steps")
)

// MaxSteps bounds the length of a built schedule.
const MaxSteps = cycle.MaxSequenceLength

// Protocol is a sequence of peaks sharing one step size, cycle type and scale.
type Protocol struct {
	Name        string
	Peaks       []float64
	StepSize    float64
	Type        cycle.Type
	ScaleFactor float64
	Cycles      int
	Unit        string // length unit of peaks and targets, informational
}

func (p Protocol) Validate() error {
	_, err := p.TotalSteps()
	return err
}

// TotalSteps validates p and returns the length of its built schedule.
func (p Protocol) TotalSteps() (int, error) {
	if len(p.Peaks) == 0 {
		return 0, ErrNoPeaks
	}
	if p.Cycles < 1 {
		return 0, fmt.Errorf("%w, got %d", ErrCycles, p.Cycles)
	}
	if math.IsNaN(p.ScaleFactor) || math.IsInf(p.ScaleFactor, 0) {
		return 0, ErrScaleFactor
	}
	total := 0
	for i, peak := range p.Peaks {
		n, err := cycle.PeakSteps(p.request(peak))
		if err != nil {
			return 0, fmt.Errorf("peak %d (%g): %w", i, peak, err)
		}
		perCycle := 2 + n*p.Type.Phases()
		if p.Cycles > (MaxSteps-total)/perCycle {
			return 0, fmt.Errorf("%w: limit %d reached at peak %d", ErrTooManySteps, MaxSteps, i)
		}
		total += perCycle * p.Cycles
	}
	return total, nil
}

func (p Protocol) request(peak float64) cycle.Request {
	return cycle.Request{
		Peak:        peak,
		StepSize:    p.StepSize,
		Type:        p.Type,
		ScaleFactor: p.ScaleFactor,
	}
}

// Step is one displacement command of the schedule.
type Step struct {
	Index     int     `json:"index"`
	PeakIndex int     `json:"peak_index"`
	Peak      float64 `json:"peak"`
	Cycle     int     `json:"cycle"`
	Target    float64 `json:"target"`
	Increment float64 `json:"increment"`
}

// Segment locates the steps of one cycle at one peak.
type Segment struct {
	PeakIndex int     `json:"peak_index"`
	Peak      float64 `json:"peak"`
	Cycle     int     `json:"cycle"`
	Start     int     `json:"start"`
	End       int     `json:"end"` // exclusive
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
}

// Schedule is the flattened step list of a protocol.
type Schedule struct {
	Protocol  Protocol
	Steps     []Step
	Sequences []cycle.Sequence // one per peak
	segments  []Segment
}

// Build generates each peak's sequence once and repeats it Cycles times.
// The increment baseline resets to zero at the start of every cycle.
func (p Protocol) Build() (*Schedule, error) {
	total, err := p.TotalSteps()
	if err != nil {
		return nil, err
	}

	s := &Schedule{
		Protocol:  p,
		Steps:     make([]Step, 0, total),
		Sequences: make([]cycle.Sequence, len(p.Peaks)),
	}

	for pi, peak := range p.Peaks {
		seq, err := cycle.Generate(p.request(peak))
		if err != nil {
			return nil, fmt.Errorf("peak %d (%g): %w", pi, peak, err)
		}
		s.Sequences[pi] = seq

		for c := 1; c <= p.Cycles; c++ {
			seg := Segment{
				PeakIndex: pi,
				Peak:      peak,
				Cycle:     c,
				Start:     len(s.Steps),
				Max:       seq.Max(),
				Min:       seq.Min(),
			}

			prev := 0.0
			for _, target := range seq {
				s.Steps = append(s.Steps, Step{
					Index:     len(s.Steps),
					PeakIndex: pi,
					Peak:      peak,
					Cycle:     c,
					Target:    target,
					Increment: target - prev,
				})
				prev = target
			}

			seg.End = len(s.Steps)
			s.segments = append(s.segments, seg)
		}
	}

	return s, nil
}

func (s *Schedule) Len() int { return len(s.Steps) }

func (s *Schedule) Targets() []float64 {
	out := make([]float64, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Target
	}
	return out
}

func (s *Schedule) Increments() []float64 {
	out := make([]float64, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Increment
	}
	return out
}

func (s *Schedule) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// ExampleSevenPeaks are the roof drift ratios of the reference frame analysis.
var ExampleSevenPeaks = []float64{0.005, 0.01, 0.025, 0.05, 0.1}

// ExampleSeven scales the reference drift ratios by the building height and
// steps at 0.1% of that height, one Full cycle per peak.
func ExampleSeven(b units.Building) Protocol {
	h := b.Height()
	peaks := make([]float64, len(ExampleSevenPeaks))
	copy(peaks, ExampleSevenPeaks)
	return Protocol{
		Name:        "example7",
		Peaks:       peaks,
		StepSize:    0.001 * h,
		Type:        cycle.Full,
		ScaleFactor: h,
		Cycles:      1,
	}
}
