package metrics

import (
	"gonum.org/v1/gonum/floats"
)

// Summary describes a displacement history as a whole.
type Summary struct {
	Count  int     `json:"count"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Travel float64 `json:"travel"`
	Mean   float64 `json:"mean"`
}

// Summarize computes the extremes, mean and travel of a history.
// Travel is measured from zero.
func Summarize(history []float64) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	diffs := make([]float64, len(history))
	prev := 0.0
	for i, v := range history {
		diffs[i] = v - prev
		prev = v
	}

	return Summary{
		Count:  len(history),
		Max:    floats.Max(history),
		Min:    floats.Min(history),
		Travel: floats.Norm(diffs, 1),
		Mean:   floats.Sum(history) / float64(len(history)),
	}
}
