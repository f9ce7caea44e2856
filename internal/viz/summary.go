package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

// RenderSummary draws a styled panel describing a schedule and, when r is
// not nil, the run that applied it.
func RenderSummary(s *protocol.Schedule, r *driver.Result, unit string) string {
	p := s.Protocol
	sum := metrics.Summarize(s.Targets())

	var b strings.Builder
	b.WriteString(Title.Render(p.Name) + "\n\n")
	b.WriteString(KeyValue("Cycle type", p.Type.String()) + "\n")
	b.WriteString(KeyValue("Peaks", fmt.Sprint(p.Peaks)) + "\n")
	b.WriteString(KeyValue("Scale factor", fmt.Sprintf("%g", p.ScaleFactor)) + "\n")
	b.WriteString(KeyValue("Step size", fmt.Sprintf("%g %s", p.StepSize, unit)) + "\n")
	b.WriteString(KeyValue("Cycles", fmt.Sprintf("%d", p.Cycles)) + "\n")
	b.WriteString(KeyValue("Steps", fmt.Sprintf("%d", s.Len())) + "\n")
	b.WriteString(KeyValue("Range", fmt.Sprintf("%.4f .. %.4f %s", sum.Min, sum.Max, unit)) + "\n")
	b.WriteString(KeyValue("Shape", Sparkline(s.Targets(), 40)) + "\n")

	if r != nil {
		b.WriteString("\n")
		status := StatusRunning.Render(r.Status.String())
		if r.Status != driver.Done {
			status = StatusFailed.Render(r.Status.String())
		}
		b.WriteString(KeyValue("Status", status) + "\n")
		b.WriteString(KeyValue("Steps taken", fmt.Sprintf("%d", r.StepsTaken)) + "\n")
		b.WriteString(KeyValue("Final", fmt.Sprintf("%.4f %s", r.Final, unit)) + "\n")

		names := make([]string, 0, len(r.Metrics))
		for name := range r.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(KeyValue(name, fmt.Sprintf("%.6g", r.Metrics[name])) + "\n")
		}
		if r.Err != nil {
			b.WriteString("\n" + StatusFailed.Render(r.Err.Error()) + "\n")
		}
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderSegments lists every peak/cycle segment of a schedule.
func RenderSegments(s *protocol.Schedule, unit string) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-6s %-10s %-6s %-12s %s", "PEAK", "DRIFT", "CYCLE", "STEPS", "RANGE")) + "\n")
	for _, seg := range s.Segments() {
		fmt.Fprintf(&b, "%-6d %-10g %-6d %-12s %.4f .. %.4f %s\n",
			seg.PeakIndex+1, seg.Peak, seg.Cycle,
			fmt.Sprintf("%d-%d", seg.Start, seg.End-1),
			seg.Min, seg.Max, unit)
	}
	return b.String()
}
