package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/xuri/excelize/v2"
)

func testTable(t *testing.T, run bool) *Table {
	t.Helper()
	p := protocol.Protocol{
		Name:        "test",
		Peaks:       []float64{0.3, 0.5},
		StepSize:    0.1,
		Type:        cycle.Full,
		ScaleFactor: 1,
		Cycles:      1,
	}
	s, err := p.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !run {
		return NewTable(s, nil)
	}
	solver := &driver.FailingSolver{Solver: driver.NewTrackingSolver(), FailAt: 12}
	r, _ := driver.New(solver, nil).Run(context.Background(), s)
	return NewTable(s, r)
}

func TestNewTable(t *testing.T) {
	tbl := testTable(t, true)
	// 0.3/0.1 truncates to 2 steps per phase, 0.5/0.1 gives 5
	if len(tbl.Rows) != 10+22 {
		t.Fatalf("expected 32 rows, got %d", len(tbl.Rows))
	}
	if tbl.Status != "PROBLEM INCOMPLETE" {
		t.Errorf("unexpected status %q", tbl.Status)
	}
	if got := len(tbl.Displacements()); got != 12 {
		t.Errorf("expected 12 applied steps, got %d", got)
	}
	if tbl.Rows[12].Applied {
		t.Error("row 12 should not be applied")
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := testTable(t, true)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(records) != len(tbl.Rows)+1 {
		t.Fatalf("expected %d records, got %d", len(tbl.Rows)+1, len(records))
	}
	if strings.Join(records[0], ",") != "index,peak_index,peak,cycle,target,increment,displacement" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[2][6] != "0.000000" {
		t.Errorf("expected applied zero displacement, got %q", records[2][6])
	}
	if records[len(records)-1][6] != "" {
		t.Errorf("unapplied step should have empty displacement, got %q", records[len(records)-1][6])
	}
}

func TestWriteXLSX(t *testing.T) {
	tbl := testTable(t, true)
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, tbl); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(stepsSheet)
	if err != nil {
		t.Fatalf("read steps failed: %v", err)
	}
	if len(rows) != len(tbl.Rows)+1 {
		t.Errorf("expected %d rows, got %d", len(tbl.Rows)+1, len(rows))
	}

	name, err := f.GetCellValue(summarySheet, "B1")
	if err != nil {
		t.Fatalf("read summary failed: %v", err)
	}
	if name != "test" {
		t.Errorf("expected protocol name, got %q", name)
	}
	typ, _ := f.GetCellValue(summarySheet, "B2")
	if typ != "Full" {
		t.Errorf("expected cycle type Full, got %q", typ)
	}
}

func TestWritePlot(t *testing.T) {
	tbl := testTable(t, true)
	magic := map[string]string{
		"png": "\x89PNG",
		"svg": "<svg",
		"pdf": "%PDF",
	}
	for _, format := range PlotFormats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePlot(&buf, tbl, "in", format); err != nil {
				t.Fatalf("plot failed: %v", err)
			}
			head := buf.Bytes()
			if len(head) > 512 {
				head = head[:512]
			}
			if !bytes.Contains(head, []byte(magic[format])) {
				t.Errorf("%s output has wrong header", format)
			}
		})
	}
}

func TestWritePlotUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlot(&buf, testTable(t, false), "in", "bmp"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	info := ReportInfo{Project: "frame", Author: "tester", Unit: "in"}
	if err := WriteReport(&buf, testTable(t, true), info); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("report is not a PDF")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]string{
		"out/plot.PNG": "png",
		"run.xlsx":     "xlsx",
		"noext":        "",
	}
	for in, want := range cases {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
