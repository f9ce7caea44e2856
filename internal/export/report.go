package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"
)

// ReportInfo is printed in the report header.
type ReportInfo struct {
	Project string
	Author  string
	Unit    string
	Date    time.Time
}

// WriteReport writes a one-page PDF summary with the protocol plot.
func WriteReport(w io.Writer, t *Table, info ReportInfo) error {
	if info.Date.IsZero() {
		info.Date = time.Now()
	}

	var img bytes.Buffer
	if err := WritePlot(&img, t, info.Unit, "png"); err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Cyclic Pushover Protocol: %s", t.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if info.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", info.Project))
		pdf.Ln(6)
	}
	if info.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", info.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", info.Date.Format("2006-01-02")))
	pdf.Ln(10)

	p := t.Protocol
	sum := t.Summary()
	rows := [][2]string{
		{"Cycle type", p.Type.String()},
		{"Peaks", fmt.Sprint(p.Peaks)},
		{"Scale factor", fmt.Sprintf("%g", p.ScaleFactor)},
		{"Step size", fmt.Sprintf("%g %s", p.StepSize, info.Unit)},
		{"Cycles per peak", fmt.Sprintf("%d", p.Cycles)},
		{"Steps", fmt.Sprintf("%d", len(t.Rows))},
		{"Max target", fmt.Sprintf("%.4f %s", sum.Max, info.Unit)},
		{"Min target", fmt.Sprintf("%.4f %s", sum.Min, info.Unit)},
	}
	if t.Status != "" {
		rows = append(rows, [2]string{"Status", t.Status})
	}
	names := make([]string, 0, len(t.Metrics))
	for name := range t.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, [2]string{name, fmt.Sprintf("%.6g", t.Metrics[name])})
	}

	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(120, 6, r[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("protocol", opts, &img)
	pdf.ImageOptions("protocol", 10, pdf.GetY(), 190, 0, false, opts, 0, "")

	return pdf.Output(w)
}
