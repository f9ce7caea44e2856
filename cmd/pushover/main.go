package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/server"
)

var version = "dev"

var (
	dataDir string
	verbose bool

	// Protocol selection
	configFile  string
	preset      string
	peaks       []float64
	stepSize    float64
	scaleFactor float64
	cycleType   string
	cycles      int
	lenient     bool

	// generate
	peak      float64
	genStep   float64
	genScale  float64
	genType   string
	genFormat string
	showPlot  bool
	showAll   bool

	// run
	failAt int
	noSave bool

	// export / plot
	outPath string
	format  string
	project string
	author  string

	// compare
	stepMin  float64
	stepMax  float64
	numSteps int

	addr     string
	maxSteps int
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:          "pushover",
		Short:        "displacement-controlled cyclic pushover protocols",
		SilenceUsage: true,
	}

	defaultData := os.Getenv("PUSHOVER_DATA")
	if defaultData == "" {
		defaultData = ".pushover"
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", defaultData, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "print the displacement sequence of one cycle",
		Args:  cobra.NoArgs,
		RunE:  generateCycle,
	}
	generateCmd.Flags().Float64Var(&peak, "peak", 0, "peak displacement (before scaling)")
	generateCmd.Flags().Float64Var(&genStep, "step", cycle.DefaultStepSize, "displacement increment")
	generateCmd.Flags().Float64Var(&genScale, "scale", cycle.DefaultScaleFactor, "scale factor applied to the peak")
	generateCmd.Flags().StringVar(&genType, "type", cycle.DefaultType.String(), "cycle type: Push, Half or Full")
	generateCmd.Flags().BoolVar(&lenient, "lenient", false, "treat unknown cycle types as Push")
	generateCmd.Flags().StringVar(&genFormat, "format", "list", "output format: list, csv or json")
	generateCmd.Flags().BoolVar(&showPlot, "plot", false, "draw an ASCII plot instead of values")
	generateCmd.MarkFlagRequired("peak")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "show the step schedule of a protocol",
		Args:  cobra.NoArgs,
		RunE:  showSchedule,
	}
	addProtocolFlags(scheduleCmd)
	scheduleCmd.Flags().BoolVar(&showAll, "targets", false, "print every target displacement")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "dry-run a protocol and store the result",
		Args:  cobra.NoArgs,
		RunE:  runProtocol,
	}
	addProtocolFlags(runCmd)
	runCmd.Flags().IntVar(&failAt, "fail-at", -1, "simulate non-convergence from this step on")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&outPath, "out", "o", "", "write a png, svg or pdf plot instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to csv, xlsx, json, pdf, png or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVarP(&format, "format", "f", "", "output format (default from file extension, else csv)")
	exportCmd.Flags().StringVar(&project, "project", "", "project name for pdf reports")
	exportCmd.Flags().StringVar(&author, "author", "", "author for pdf reports")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay a protocol step by step in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addProtocolFlags(liveCmd)
	liveCmd.Flags().IntVar(&failAt, "fail-at", -1, "simulate non-convergence from this step on")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available protocol presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare a protocol across step sizes",
		Args:  cobra.NoArgs,
		RunE:  compareStepSizes,
	}
	addProtocolFlags(compareCmd)
	compareCmd.Flags().Float64Var(&stepMin, "min", 0, "smallest step size (default protocol step)")
	compareCmd.Flags().Float64Var(&stepMax, "max", 0, "largest step size (default 10x smallest)")
	compareCmd.Flags().IntVar(&numSteps, "n", 5, "number of step sizes")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario of protocols",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	defaultAddr := os.Getenv("PUSHOVER_ADDR")
	if defaultAddr == "" {
		defaultAddr = server.DefaultAddr
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	serveCmd.Flags().IntVar(&maxSteps, "max-steps", server.DefaultMaxSteps, "largest cycle or schedule served")

	unitsCmd := &cobra.Command{
		Use:   "units",
		Short: "print the unit system",
		Args:  cobra.NoArgs,
		RunE:  printUnits,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pushover %s\n", version)
		},
	}

	rootCmd.AddCommand(generateCmd, scheduleCmd, runCmd, listCmd, plotCmd, exportCmd, liveCmd,
		presetsCmd, compareCmd, scenarioCmd, serveCmd, unitsCmd, versionCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func addProtocolFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64SliceVar(&peaks, "peaks", nil, "peak drift ratios")
	cmd.Flags().Float64Var(&stepSize, "step", 0, "displacement increment (default 0.001 x scale)")
	cmd.Flags().Float64Var(&scaleFactor, "scale", 0, "scale factor (default building height)")
	cmd.Flags().StringVar(&cycleType, "type", "Full", "cycle type: Push, Half or Full")
	cmd.Flags().IntVar(&cycles, "cycles", 1, "cycles per peak")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "treat unknown cycle types as Push")
}
