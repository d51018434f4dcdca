package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/experiment"
	"github.com/san-kum/bouncesim/internal/report"
	"github.com/san-kum/bouncesim/internal/storage"
	"github.com/san-kum/bouncesim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	steps      int
	dt         float64
	integrator string
	outFile    string
	csvFrames  bool
	csvDir     string
	saveRun    bool
	quiet      bool
	frameRate  int
	themeName  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires every command. With no subcommand the root behaves like
// `run` with the default configuration.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "bouncesim",
		Short:        "sphere in a box with penalty walls, leapfrog integrated",
		Args:         cobra.NoArgs,
		RunE:         runSimulation,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bouncesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and stream states to stdout",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-8s  bodies=%d  g=%g  k=%g  b=%g\n",
					name, len(p.Bodies), p.Physics.Gravity, p.Physics.Stiffness, p.Physics.Damping)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	compareCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	compareCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, compareCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&outFile, "out", report.DefaultSnapshotFile, "final snapshot file (empty to skip)")
	cmd.Flags().BoolVar(&csvFrames, "csv", false, "write data-<step>.csv frames")
	cmd.Flags().StringVar(&csvDir, "csv-dir", config.DefaultCSVDir, "directory for csv frames")
	cmd.Flags().BoolVar(&saveRun, "save", false, "store the run under the data directory")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not stream states to stdout")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("out") {
		cfg.Output.Snapshot = outFile
	}
	if flags.Changed("csv") {
		cfg.Output.CSV = csvFrames
	}
	if flags.Changed("csv-dir") {
		cfg.Output.CSVDir = csvDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	var observers []dynamo.Observer
	var console *report.Console
	if !quiet {
		console = report.NewConsole(cmd.OutOrStdout(), cfg.Track)
		observers = append(observers, console)
	}
	if cfg.Output.CSV {
		frames, err := report.NewCSVFrames(cfg.Output.CSVDir)
		if err != nil {
			return err
		}
		observers = append(observers, frames)
	}

	start := time.Now()
	result, err := exp.Run(cmd.Context(), observers...)
	if console != nil {
		if ferr := console.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		return err
	}
	logger.Info("simulation finished", "steps", result.StepsTaken, "elapsed", time.Since(start))

	if cfg.Output.Snapshot != "" {
		if err := report.SaveSnapshot(cfg.Output.Snapshot, result.Final); err != nil {
			return err
		}
		logger.Debug("snapshot written", "path", cfg.Output.Snapshot)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		p := cfg.Params()
		runID, err := st.Save(storage.RunMetadata{
			Preset:     preset,
			Dt:         cfg.Dt,
			Steps:      cfg.Steps,
			Bodies:     len(cfg.Bodies),
			Track:      cfg.Track,
			Integrator: cfg.Integrator,
			Gravity:    p.Gravity,
			Stiffness:  p.Stiffness,
			Damping:    p.Damping,
			Metrics:    result.Metrics,
		}, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "run id: %s\n", runID)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	viz.SetTheme(themeName)
	m, err := viz.NewModel(cfg, frameRate)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tBODIES\tINTEG\tBOUNCES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4fs\t%d\t%s\t%.0f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Bodies,
			run.Integrator,
			run.Metrics["bounces"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "integrator: %s\n", meta.Integrator)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	for col, name := range storage.StateColumns {
		data := make([]float64, len(states))
		for i := range states {
			if col < len(states[i]) {
				data[i] = states[i][col]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

// compareIntegrators runs the same configuration once per integrator and
// tabulates final state and dissipation.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	registry := experiment.NewRegistry()

	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (dt=%.4f, steps=%d)\n\n", base.Dt, base.Steps)
	fmt.Fprintf(out, "%-10s  %12s  %12s  %12s  %8s  %10s\n", "integrator", "final_x", "final_z", "energy_loss", "bounces", "time_ms")

	for _, name := range names {
		cfg := base.Clone()
		cfg.Integrator = name

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry); err != nil {
			fmt.Fprintf(out, "%-10s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(out, "%-10s  error: %v\n", name, err)
			continue
		}

		final := result.Final[cfg.Track]
		fmt.Fprintf(out, "%-10s  %12.6f  %12.6f  %12.4e  %8.0f  %10.2f\n",
			name, final.R.X, final.R.Z, result.Metrics["energy_loss"], result.Metrics["bounces"],
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}
