package viz

import (
	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 70
	plotHeight = 15
)

// PlotOptions sizes an ASCII chart. Zero values use the defaults.
type PlotOptions struct {
	Width  int
	Height int
}

// Plot draws values as an ASCII line chart.
func Plot(values []float64, caption string, opts PlotOptions) string {
	if len(values) == 0 {
		return Subtle.Render("(no data)")
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = plotWidth
	}
	if h <= 0 {
		h = plotHeight
	}
	return asciigraph.Plot(values,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series, e.g. target and applied displacement.
func PlotMany(series [][]float64, caption string, opts PlotOptions) string {
	nonEmpty := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return Subtle.Render("(no data)")
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = plotWidth
	}
	if h <= 0 {
		h = plotHeight
	}
	return asciigraph.PlotMany(nonEmpty,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
	)
}
