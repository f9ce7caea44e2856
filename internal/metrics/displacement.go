// Package metrics summarizes a pushover run step by step.
package metrics

import (
	"math"

	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// MaxDisplacement tracks the largest control displacement reached.
type MaxDisplacement struct {
	value float64
	seen  bool
}

func NewMaxDisplacement() *MaxDisplacement { return &MaxDisplacement{} }

func (m *MaxDisplacement) Name() string { return "max_displacement" }

func (m *MaxDisplacement) Observe(st protocol.Step, disp float64) {
	if !m.seen || disp > m.value {
		m.value = disp
		m.seen = true
	}
}

func (m *MaxDisplacement) Value() float64 { return m.value }

func (m *MaxDisplacement) Reset() {
	m.value = 0
	m.seen = false
}

// MinDisplacement tracks the most negative control displacement reached.
type MinDisplacement struct {
	value float64
	seen  bool
}

func NewMinDisplacement() *MinDisplacement { return &MinDisplacement{} }

func (m *MinDisplacement) Name() string { return "min_displacement" }

func (m *MinDisplacement) Observe(st protocol.Step, disp float64) {
	if !m.seen || disp < m.value {
		m.value = disp
		m.seen = true
	}
}

func (m *MinDisplacement) Value() float64 { return m.value }

func (m *MinDisplacement) Reset() {
	m.value = 0
	m.seen = false
}

// Travel is the total distance commanded at the control node.
type Travel struct {
	total float64
}

func NewTravel() *Travel { return &Travel{} }

func (t *Travel) Name() string { return "travel" }

func (t *Travel) Observe(st protocol.Step, disp float64) {
	t.total += math.Abs(st.Increment)
}

func (t *Travel) Value() float64 { return t.total }

func (t *Travel) Reset() { t.total = 0 }

// Drift is the gap between the control displacement and the commanded target
// after the last observed step.
type Drift struct {
	gap float64
}

func NewDrift() *Drift { return &Drift{} }

func (d *Drift) Name() string { return "target_drift" }

func (d *Drift) Observe(st protocol.Step, disp float64) {
	d.gap = math.Abs(disp - st.Target)
}

func (d *Drift) Value() float64 { return d.gap }

func (d *Drift) Reset() { d.gap = 0 }

// Closure is the largest distance from zero at which a reversing cycle ends.
// Cycles without a reversal (Push) are not closed and are ignored. Targets
// accumulate by addition, so a closed cycle may end a rounding error away
// from zero.
type Closure struct {
	worst    float64
	last     float64
	reversed bool
	dir      int
	cur      [2]int
	started  bool
}

func NewClosure() *Closure { return &Closure{} }

func (c *Closure) Name() string { return "closure_error" }

func (c *Closure) Observe(st protocol.Step, disp float64) {
	key := [2]int{st.PeakIndex, st.Cycle}
	if !c.started || key != c.cur {
		c.finish()
		c.cur = key
		c.started = true
		c.reversed = false
		c.dir = 0
	}

	var dir int
	switch {
	case st.Increment > 0:
		dir = 1
	case st.Increment < 0:
		dir = -1
	}
	if dir != 0 {
		if c.dir != 0 && dir != c.dir {
			c.reversed = true
		}
		c.dir = dir
	}
	c.last = st.Target
}

func (c *Closure) finish() {
	if c.started && c.reversed {
		c.worst = math.Max(c.worst, math.Abs(c.last))
	}
}

func (c *Closure) Value() float64 {
	if c.started && c.reversed {
		return math.Max(c.worst, math.Abs(c.last))
	}
	return c.worst
}

func (c *Closure) Reset() { *c = Closure{} }
