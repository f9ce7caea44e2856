package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	stepsSheet   = "Steps"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Steps sheet and a Summary sheet.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stepsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(stepsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(stepsSheet, "A1", "G1", bold); err != nil {
		return err
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Index, r.PeakIndex, r.Peak, r.Cycle, r.Target, r.Increment, nil}
		if r.Applied {
			row[6] = r.Displacement
		}
		if err := f.SetSheetRow(stepsSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	p := t.Protocol
	sum := t.Summary()
	lines := [][]interface{}{
		{"protocol", p.Name},
		{"cycle_type", p.Type.String()},
		{"step_size", p.StepSize},
		{"scale_factor", p.ScaleFactor},
		{"cycles", p.Cycles},
		{"peaks", fmt.Sprint(p.Peaks)},
		{"steps", len(t.Rows)},
		{"max_target", sum.Max},
		{"min_target", sum.Min},
		{"travel", sum.Travel},
	}
	if t.Status != "" {
		lines = append(lines, []interface{}{"status", t.Status})
	}

	names := make([]string, 0, len(t.Metrics))
	for name := range t.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, []interface{}{name, t.Metrics[name]})
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(lines)), bold); err != nil {
		return err
	}

	return f.Write(w)
}
