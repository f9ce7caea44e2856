package cycle

// Sequence is an ordered list of cumulative target displacements.
type Sequence []float64

func (s Sequence) Clone() Sequence {
	c := make(Sequence, len(s))
	copy(c, s)
	return c
}

// Increments returns the displacement command for each entry, measured from
// the previous entry. The first increment is measured from zero.
func (s Sequence) Increments() []float64 {
	out := make([]float64, len(s))
	prev := 0.0
	for i, v := range s {
		out[i] = v - prev
		prev = v
	}
	return out
}

// Max returns the largest target, or 0 for an empty sequence.
func (s Sequence) Max() float64 {
	m := 0.0
	for i, v := range s {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest target, or 0 for an empty sequence.
func (s Sequence) Min() float64 {
	m := 0.0
	for i, v := range s {
		if i == 0 || v < m {
			m = v
		}
	}
	return m
}

// Final returns the last target, or 0 for an empty sequence.
func (s Sequence) Final() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Reversals counts the points where the direction of travel changes sign.
// Zero-length moves (the leading seed) do not count as a direction.
func (s Sequence) Reversals() int {
	count := 0
	dir := 0
	for i := 1; i < len(s); i++ {
		d := s[i] - s[i-1]
		var cur int
		switch {
		case d > 0:
			cur = 1
		case d < 0:
			cur = -1
		default:
			continue
		}
		if dir != 0 && cur != dir {
			count++
		}
		dir = cur
	}
	return count
}
