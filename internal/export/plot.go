package export

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	targetColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	appliedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Formats supported by WritePlot.
var PlotFormats = []string{"png", "svg", "pdf"}

// NewPlot draws target displacement against step number, with the applied
// displacement overlaid when the table carries a run.
func NewPlot(t *Table, unit string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cyclic displacement protocol: %s", t.Title)
	p.X.Label.Text = "Step"
	p.Y.Label.Text = fmt.Sprintf("Displacement (%s)", unit)
	p.Add(plotter.NewGrid())

	targets := make(plotter.XYs, len(t.Rows))
	for i, r := range t.Rows {
		targets[i] = plotter.XY{X: float64(r.Index), Y: r.Target}
	}
	line, err := plotter.NewLine(targets)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = targetColor
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("target", line)

	applied := make(plotter.XYs, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Applied {
			applied = append(applied, plotter.XY{X: float64(r.Index), Y: r.Displacement})
		}
	}
	if len(applied) > 0 {
		al, err := plotter.NewLine(applied)
		if err != nil {
			return nil, err
		}
		al.LineStyle.Color = appliedColor
		al.LineStyle.Width = vg.Points(0.75)
		al.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(al)
		p.Legend.Add("applied", al)
	}

	p.Legend.Top = true
	return p, nil
}

// WritePlot renders the table plot in format (png, svg or pdf).
func WritePlot(w io.Writer, t *Table, unit, format string) error {
	p, err := NewPlot(t, unit)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// FormatFromPath returns the plot or export format implied by a file name.
func FormatFromPath(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
