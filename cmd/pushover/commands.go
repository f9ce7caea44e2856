package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/izzettinalhalil/pushover/internal/automation"
	"github.com/izzettinalhalil/pushover/internal/config"
	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/logging"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/server"
	"github.com/izzettinalhalil/pushover/internal/storage"
	"github.com/izzettinalhalil/pushover/internal/units"
	"github.com/izzettinalhalil/pushover/internal/viz"
)

func newLogger() *zap.Logger {
	log, err := logging.New(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logger: %v\n", err)
		return zap.NewNop()
	}
	return log
}

// resolveConfig applies, in order, the preset, the config file and the flags
// that were set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("peaks") {
		cfg.Peaks = append([]float64(nil), peaks...)
		if preset == "" && configFile == "" {
			cfg.Name = "custom"
		}
	}
	if flags.Changed("step") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("scale") {
		cfg.ScaleFactor = scaleFactor
	}
	if flags.Changed("type") {
		cfg.CycleType = cycleType
	}
	if flags.Changed("cycles") {
		cfg.Cycles = cycles
	}
	if flags.Changed("lenient") {
		cfg.LenientCycleType = lenient
	}
	return cfg, nil
}

func solverFactory() driver.SolverFactory {
	if failAt < 0 {
		return func() driver.Solver { return driver.NewTrackingSolver() }
	}
	return func() driver.Solver {
		return &driver.FailingSolver{Solver: driver.NewTrackingSolver(), FailAt: failAt}
	}
}

func generateCycle(cmd *cobra.Command, args []string) error {
	req := cycle.Request{
		Peak:        peak,
		StepSize:    genStep,
		ScaleFactor: genScale,
	}
	if lenient {
		req.Type = cycle.ParseTypeLenient(genType)
	} else {
		t, err := cycle.ParseType(genType)
		if err != nil {
			return err
		}
		req.Type = t
	}

	seq, err := cycle.Generate(req)
	if err != nil {
		return err
	}

	if showPlot {
		caption := fmt.Sprintf("%s cycle, peak %g x %g, step %g", req.Type, req.Peak, req.ScaleFactor, req.StepSize)
		fmt.Println(viz.Plot(seq, caption, viz.PlotOptions{}))
		return nil
	}

	switch genFormat {
	case "list":
		for _, v := range seq {
			fmt.Println(strconv.FormatFloat(v, 'g', -1, 64))
		}
	case "csv":
		w := csv.NewWriter(os.Stdout)
		w.Write([]string{"index", "displacement"})
		for i, v := range seq {
			w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)})
		}
		w.Flush()
		return w.Error()
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(seq)
	default:
		return fmt.Errorf("unknown format: %s (want list, csv or json)", genFormat)
	}
	return nil
}

func showSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderSummary(sched, nil, cfg.Control.Unit))
	fmt.Println()
	fmt.Print(viz.RenderSegments(sched, cfg.Control.Unit))

	if showAll {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tPEAK\tCYCLE\tTARGET\tINCREMENT")
		for _, st := range sched.Steps {
			fmt.Fprintf(w, "%d\t%g\t%d\t%.6f\t%.6f\n", st.Index, st.Peak, st.Cycle, st.Target, st.Increment)
		}
		return w.Flush()
	}
	return nil
}

func runProtocol(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	d := driver.New(solverFactory()(), log)
	for _, m := range metrics.Defaults() {
		d.AddMetric(m)
	}

	start := time.Now()
	result, runErr := d.Run(cmd.Context(), sched)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sched, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Println(viz.RenderSummary(sched, result, cfg.Control.Unit))
	fmt.Println(result.Summary(cfg.Control.Node, cfg.Control.DOF, cfg.Control.Unit))

	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sched, err := cfg.Schedule()
	if err != nil {
		return err
	}

	m := viz.NewPlayer(sched, solverFactory(), cfg.Control.Unit)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tCYCLES\tSCALE\tSTEP\tPEAKS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%v\n",
			name,
			cfg.CycleType,
			cfg.Cycles,
			cfg.EffectiveScaleFactor(),
			cfg.EffectiveStepSize(),
			cfg.Peaks,
		)
	}
	return w.Flush()
}

func compareStepSizes(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Protocol()
	if err != nil {
		return err
	}

	lo, hi := stepMin, stepMax
	if lo == 0 {
		lo = p.StepSize
	}
	if hi == 0 {
		hi = 10 * lo
	}

	log := newLogger()
	defer log.Sync()

	sw := &automation.StepSweep{Protocol: p, StepMin: lo, StepMax: hi, NumSteps: numSteps}
	results, err := automation.RunSweep(cmd.Context(), sw, solverFactory(), log)

	fmt.Printf("comparing step sizes for %s (%s, %d peaks)\n\n", p.Name, p.Type, len(p.Peaks))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tSTATUS\tMAX\tMIN\tFINAL\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%.6g\t%d\t%s\t%.6f\t%.6f\t%.3e\t%.3e\n",
			r.StepSize, r.Steps, r.Status, r.Max, r.Min, r.Final, r.Drift)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(cmd.Context(), sc, automation.Options{
		Solvers: solverFactory(),
		Store:   st,
		Log:     log,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPROTOCOL\tSTATUS\tSTEPS\tFINAL\tRUN ID")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.4f\t%s\n",
			i+1, r.Name, r.Result.Status, r.Result.StepsTaken, r.Result.Final, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func serve(cmd *cobra.Command, args []string) error {
	log, err := logging.NewJSON()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := server.DefaultOptions()
	opts.Log = log
	opts.MaxSteps = maxSteps
	return server.New(opts).ListenAndServe(cmd.Context(), addr)
}

func printUnits(cmd *cobra.Command, args []string) error {
	u := units.Imperial()
	b := units.ExampleSevenBuilding(u)

	fmt.Printf("base units: %s, %s, %s\n\n", u.LengthLabel, u.ForceLabel, u.TimeLabel)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tVALUE")
	rows := []struct {
		name  string
		value float64
	}{
		{"ft", u.Ft},
		{"ksi", u.Ksi},
		{"psi", u.Psi},
		{"lbf", u.Lbf},
		{"pcf", u.Pcf},
		{"psf", u.Psf},
		{"in2", u.In2},
		{"in4", u.In4},
		{"cm", u.Cm},
		{"g", u.G},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.6g\n", r.name, r.value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nexample building: %d stories x %g %s = %g %s\n",
		b.Stories, b.StoryHeight, u.LengthLabel, b.Height(), u.LengthLabel)
	return nil
}
