package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/headsim/internal/automation"
	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/export"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/logging"
	"github.com/san-kum/headsim/internal/metrics"
	"github.com/san-kum/headsim/internal/optim"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
	"github.com/san-kum/headsim/internal/storage"
	"github.com/san-kum/headsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFile    string
	dt         float64
	duration   float64
	configFile string
	preset     string
	traceFile  string
	save       bool
	plot       bool
	jsonOut    string
	snapshot   string
	// tune
	gridParams []string
	metricName string
	// export
	format  string
	outPath string
	// robust
	trials  int
	jitter  float64
	stretch float64
	seed    int64
)

var heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D9FF"))

// main registers the headsim commands. With no subcommand it opens the live
// terminal view.
func main() {
	rootCmd := &cobra.Command{
		Use:           "headsim",
		Short:         "head-gesture selection simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".headsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "replay a scripted scenario or trace file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&traceFile, "trace", "", "trace file path (yaml)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (defaults to the trace length)")
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot yaw and selection progress")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also export frames as json to this path")
	runCmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final scene view as svg to this path")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search parameters against a scenario",
		Long: "Runs the scenario once per grid point and reports the point whose gestures best\n" +
			"match what the scenario scripts, or the lowest value of --metric.\n\n" +
			"Parameters: " + strings.Join(optim.ParamNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: tuneScenario,
	}
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", []string{
		"motion_delta_threshold=0.5,1,1.5,2.5",
		"gesture_duration_threshold=0.1,0.15,0.25,0.4",
	}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "", "minimize this metric instead of gesture error")
	tuneCmd.Flags().StringVar(&preset, "preset", "", "base preset")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json or an svg head path",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or svg")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "run a scenario under every preset",
		Args:  cobra.ExactArgs(1),
		RunE:  comparePresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scripted scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			reg := input.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range reg.Names() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	suiteCmd := &cobra.Command{
		Use:   "suite [file]",
		Short: "run a yaml suite of scenarios and check expected gestures",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuite,
	}

	robustCmd := &cobra.Command{
		Use:   "robust [scenario]",
		Short: "replay a scenario with random jitter and count trials that still match",
		Args:  cobra.ExactArgs(1),
		RunE:  runRobust,
	}
	robustCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	robustCmd.Flags().Float64Var(&jitter, "jitter", 0.5, "max absolute noise per segment axis")
	robustCmd.Flags().Float64Var(&stretch, "stretch", 0.2, "max relative change per segment duration")
	robustCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	robustCmd.Flags().StringVar(&preset, "preset", "", "base preset")

	rootCmd.AddCommand(runCmd, compareCmd, tuneCmd, suiteCmd, robustCmd, listCmd, plotCmd, exportCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger writes to --log-file when given, otherwise to stderr. The live
// view owns the terminal, so it passes quiet and only logs to a file.
func newLogger(cfg *config.Config, quiet bool) (zerolog.Logger, func(), error) {
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), func() {}, err
		}
		return logging.New(level, f), func() { f.Close() }, nil
	}
	if quiet {
		return logging.New(level, io.Discard), func() {}, nil
	}
	return logging.New(level, os.Stderr), func() {}, nil
}

// loadConfig applies the preset first and the config file on top of it.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("preset", preset).Msg("starting live view")
	return viz.Run(sim.NewSession(cfg, log))
}

func loadTrace(args []string) (*input.Trace, string, error) {
	if traceFile != "" {
		t, err := input.LoadTrace(traceFile)
		if err != nil {
			return nil, "", err
		}
		name := t.Name
		if name == "" {
			name = "trace"
		}
		return t, name, nil
	}

	if len(args) == 0 {
		return nil, "", errors.New("need a scenario name or --trace (see 'headsim scenarios')")
	}

	t, err := input.NewRegistry().Get(args[0])
	if err != nil {
		return nil, "", err
	}
	return t, args[0], nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	trace, name, err := loadTrace(args)
	if err != nil {
		return err
	}

	// CLI flags override preset and config file
	if cmd.Flags().Changed("dt") || configFile == "" {
		cfg.Session.Dt = dt
	}
	cfg.Session.Duration = trace.Duration()
	if cmd.Flags().Changed("time") {
		cfg.Session.Duration = duration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := sim.NewRunner(sim.NewSession(cfg, log), log)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	simCfg := sim.Config{Dt: cfg.Session.Dt, Duration: cfg.Session.Duration}

	fmt.Println(heading.Render("running " + name))
	start := time.Now()

	result, err := runner.Run(ctx, input.NewPlayer(trace, simCfg.Dt), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printGestures(result.Gestures)
	printMetrics(result.Metrics)

	final := result.Final()
	fmt.Printf("\nfinal: target=%s state=%s progress=%.2f focused=%v\n",
		orNone(final.Target), final.State, final.Progress, final.Focused)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scenario: name,
			Preset:   preset,
			Dt:       simCfg.Dt,
			Duration: simCfg.Duration,
			Steps:    result.StepsTaken,
			Gestures: result.Gestures,
			Metrics:  result.Metrics,
		}, result.Frames)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if jsonOut != "" {
		data := storage.NewExport(name, preset, simCfg.Dt, simCfg.Duration, result)
		if err := storage.ExportJSON(jsonOut, data); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", jsonOut)
	}

	if snapshot != "" {
		if err := export.WriteFile(snapshot, export.SceneToSVG(runner.Session(), 60, 22, 4), os.Stdout); err != nil {
			return err
		}
		fmt.Printf("snapshot: %s\n", snapshot)
	}

	if plot {
		fmt.Println()
		plotFrames(result.Frames)
	}

	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	trace, err := input.NewRegistry().Get(args[0])
	if err != nil {
		return err
	}

	names := config.ListPresets()
	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		cfg := config.GetPreset(name)
		cfg.Session.Duration = trace.Duration()
		jobs = append(jobs, sim.Job{
			Name:    name,
			Config:  cfg,
			Trace:   trace,
			Metrics: metrics.Default,
		})
	}

	log, closeLog, err := newLogger(config.DefaultConfig(), false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := sim.NewBatch(log, jobs...).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(heading.Render(fmt.Sprintf("comparing presets for %s (%.2fs)", args[0], trace.Duration())))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSHAKES\tNODS\tTIME_TO_SELECT\tSELECTED\tFINAL")
	for i, res := range results {
		final := res.Final()
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.2fs\t%.0f%%\t%s/%s\n",
			names[i],
			res.Metrics["gestures_shake"],
			res.Metrics["gestures_nod"],
			res.Metrics["time_to_select"],
			res.Metrics["selected_ratio"]*100,
			orNone(final.Target),
			final.State,
		)
	}
	return w.Flush()
}

func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneScenario(cmd *cobra.Command, args []string) error {
	name := args[0]
	trace, err := input.NewRegistry().Get(name)
	if err != nil {
		return err
	}

	base, err := loadConfig()
	if err != nil {
		return err
	}
	base.Session.Duration = trace.Duration()

	var objective optim.Objective
	switch {
	case metricName != "":
		objective = optim.Metric(metricName)
	default:
		want, ok := optim.Expected[name]
		if !ok {
			return fmt.Errorf("no expected gestures for %s, pass --metric", name)
		}
		objective = optim.GestureError(want)
	}

	params, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(base, false)
	if err != nil {
		return err
	}
	defer closeLog()

	gs, err := optim.NewGridSearch(base, params, ranges, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, all, err := gs.Search(ctx, trace, objective)
	if err != nil {
		return err
	}

	fmt.Println(heading.Render(fmt.Sprintf("tuning %s over %d points", name, len(all))))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(params, "\t"))+"\tSCORE")
	for _, c := range all {
		for _, p := range params {
			fmt.Fprintf(w, "%g\t", c.Params[p])
		}
		fmt.Fprintf(w, "%g\n", c.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, p := range params {
		fmt.Printf("  %s: %g\n", p, best.Params[p])
	}
	fmt.Printf("  score: %g\n", best.Score)
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	suite, err := automation.LoadSuite(args[0])
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(config.DefaultConfig(), false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := automation.RunSuite(context.Background(), suite, log)
	if err != nil {
		return err
	}

	title := suite.Name
	if title == "" {
		title = args[0]
	}
	fmt.Println(heading.Render(fmt.Sprintf("suite %s (%d steps)", title, len(results))))
	fmt.Print(automation.Summary(results))

	failed := 0
	for _, r := range results {
		if !r.Passed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d steps failed", failed, len(results))
	}
	return nil
}

func runRobust(cmd *cobra.Command, args []string) error {
	name := args[0]
	trace, err := input.NewRegistry().Get(name)
	if err != nil {
		return err
	}
	want, ok := optim.Expected[name]
	if !ok {
		return fmt.Errorf("no expected gestures for %s", name)
	}

	base, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(base, false)
	if err != nil {
		return err
	}
	defer closeLog()

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Trace:     trace,
		Base:      base,
		Jitter:    jitter,
		Stretch:   stretch,
		NumTrials: trials,
		Seed:      seed,
		Expect:    want,
	}, log)
	if err != nil {
		return err
	}

	matched, missed := automation.MonteCarloStats(results)
	fmt.Println(heading.Render(fmt.Sprintf("%s: jitter=%.2f stretch=%.2f seed=%d", name, jitter, stretch, seed)))
	fmt.Printf("matched: %d/%d (%.0f%%)\n", matched, len(results), 100*float64(matched)/float64(len(results)))
	fmt.Printf("missed:  %d\n", missed)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		result := &sim.Result{
			Frames:     frames,
			Gestures:   meta.Gestures,
			Metrics:    meta.Metrics,
			StepsTaken: len(frames),
		}
		data := storage.NewExport(meta.Scenario, meta.Preset, meta.Dt, meta.Duration, result)
		if outPath == "-" {
			return storage.WriteJSON(os.Stdout, data)
		}
		return storage.ExportJSON(outPath, data)
	case "svg":
		svg := export.PathToSVG(frames, meta.Gestures, 800, 400)
		if svg == "" {
			return fmt.Errorf("run %s has too few frames for a path", runID)
		}
		return export.WriteFile(outPath, svg, os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (json, svg)", format)
	}
}

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
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tDURATION\tDT\tGESTURES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scenario,
			orNone(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Gestures),
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n", len(frames))
	printGestures(meta.Gestures)
	fmt.Println()

	plotFrames(frames)
	return nil
}

func plotFrames(frames []sim.Frame) {
	result := &sim.Result{Frames: frames}

	series := []struct {
		caption string
		fn      func(sim.Frame) float64
		opts    []asciigraph.Option
	}{
		{"yaw (deg)", func(f sim.Frame) float64 { return f.Yaw }, nil},
		{"pitch (deg)", func(f sim.Frame) float64 { return f.Pitch }, nil},
		{"selection progress", func(f sim.Frame) float64 { return f.Progress },
			[]asciigraph.Option{asciigraph.LowerBound(0), asciigraph.UpperBound(1)}},
		{"selected", func(f sim.Frame) float64 {
			if f.State == selection.Selected {
				return 1
			}
			return 0
		}, []asciigraph.Option{asciigraph.LowerBound(0), asciigraph.UpperBound(1), asciigraph.Height(3)}},
	}

	for _, s := range series {
		opts := append([]asciigraph.Option{
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		}, s.opts...)
		fmt.Println(asciigraph.Plot(result.Series(s.fn), opts...))
		fmt.Println()
	}
}

func printGestures(events []sim.GestureEvent) {
	if len(events) == 0 {
		fmt.Println("gestures: none")
		return
	}
	fmt.Println("gestures:")
	for _, ev := range events {
		fmt.Printf("  %6.2fs  step %-5d %-6s %s\n", ev.Time, ev.Step, ev.Gesture, orNone(ev.Target))
	}
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(m) {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
