package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/izzettinalhalil/pushover/internal/config"
	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/export"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/izzettinalhalil/pushover/internal/storage"
	"github.com/izzettinalhalil/pushover/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROTOCOL\tTIME\tTYPE\tSTEP\tSTEPS\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%d\t%s\n",
			run.ID,
			run.Protocol,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.CycleType,
			run.StepSize,
			run.StepsTaken,
			run.Status,
		)
	}

	return w.Flush()
}

// loadTable rebuilds the export table of a stored run.
func loadTable(runID string) (*export.Table, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	steps, err := st.LoadSteps(runID)
	if err != nil {
		return nil, err
	}

	typ, err := cycle.ParseType(meta.CycleType)
	if err != nil {
		return nil, err
	}
	unit := meta.Unit
	if unit == "" {
		unit = config.DefaultUnit
	}

	t := &export.Table{
		Title: meta.ID,
		Protocol: protocol.Protocol{
			Name:        meta.Protocol,
			Peaks:       meta.Peaks,
			StepSize:    meta.StepSize,
			Type:        typ,
			ScaleFactor: meta.ScaleFactor,
			Cycles:      meta.Cycles,
			Unit:        unit,
		},
		Rows:    make([]export.Row, len(steps)),
		Status:  meta.Status,
		Metrics: meta.Metrics,
	}
	for i, s := range steps {
		t.Rows[i] = export.Row{Step: s.Step, Applied: s.Applied, Displacement: s.Displacement}
	}
	return t, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	t, err := loadTable(args[0])
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WritePlot(f, t, t.Protocol.Unit, export.FormatFromPath(outPath)); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", outPath)
		return nil
	}

	fmt.Printf("run: %s\n", t.Title)
	fmt.Printf("status: %s\n", t.Status)
	fmt.Printf("steps: %d\n\n", len(t.Rows))

	caption := fmt.Sprintf("target (blue) and applied (red) displacement, %s", t.Protocol.Unit)
	fmt.Println(viz.PlotMany([][]float64{t.Targets(), t.Displacements()}, caption, viz.PlotOptions{Width: 80, Height: 12}))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	f := format
	if f == "" {
		f = export.FormatFromPath(outPath)
	}
	if f == "" {
		f = "csv"
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	if f == "json" {
		return storage.New(dataDir).ExportJSON(w, runID)
	}

	t, err := loadTable(runID)
	if err != nil {
		return err
	}

	switch f {
	case "csv":
		err = export.WriteCSV(w, t)
	case "xlsx":
		err = export.WriteXLSX(w, t)
	case "pdf":
		err = export.WriteReport(w, t, export.ReportInfo{Project: project, Author: author, Unit: t.Protocol.Unit})
	case "png", "svg":
		err = export.WritePlot(w, t, t.Protocol.Unit, f)
	default:
		return fmt.Errorf("unknown format: %s (want csv, xlsx, json, pdf, png or svg)", f)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Printf("exported %s to %s\n", runID, outPath)
	}
	return nil
}
