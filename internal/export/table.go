// Package export writes protocol schedules and run histories to CSV, XLSX,
// plot images and PDF reports.
package export

import (
	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// Row is one exported step.
type Row struct {
	protocol.Step
	Applied      bool
	Displacement float64
}

// Table pairs a schedule with the optional result of running it.
type Table struct {
	Title    string
	Protocol protocol.Protocol
	Rows     []Row
	Status   string
	Metrics  map[string]float64
}

// NewTable builds the export rows. result may be nil for an unrun schedule.
func NewTable(s *protocol.Schedule, result *driver.Result) *Table {
	t := &Table{
		Title:    s.Protocol.Name,
		Protocol: s.Protocol,
		Rows:     make([]Row, len(s.Steps)),
	}
	for i, st := range s.Steps {
		t.Rows[i].Step = st
	}
	if result != nil {
		t.Status = result.Status.String()
		t.Metrics = result.Metrics
		for i, d := range result.Displacements {
			if i < len(t.Rows) {
				t.Rows[i].Applied = true
				t.Rows[i].Displacement = d
			}
		}
	}
	return t
}

func (t *Table) Targets() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Target
	}
	return out
}

// Displacements returns the applied displacements only.
func (t *Table) Displacements() []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Applied {
			out = append(out, r.Displacement)
		}
	}
	return out
}

func (t *Table) Summary() metrics.Summary {
	return metrics.Summarize(t.Targets())
}
