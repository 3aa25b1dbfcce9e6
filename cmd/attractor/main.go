package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/attractor/internal/analysis"
	"github.com/san-kum/attractor/internal/automation"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/export"
	"github.com/san-kum/attractor/internal/gui"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/storage"
	"github.com/san-kum/attractor/internal/stream"
	"github.com/san-kum/attractor/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	quality    string
	seed       uint64
	multiplier float64
	fps        int
	view       string
	verbose    bool

	runFrames   int
	snapFrames  int
	benchFrames int
	sweepFrames int
	trialFrames int
	addr        string
	outPath     string
	width       int
	height      int
	svgOut      string
	braille     bool
	spectrum    bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	escapeMax  float64
	workers    int
)

// brailleScale is the svg size of one braille sub-pixel.
const brailleScale = 4

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	rootCmd := &cobra.Command{
		Use:   "attractor",
		Short: "particle stream around a wandering gravitational attractor",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		RunE: runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".attractor", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&quality, "quality", "", "particle quality (low, medium, high, ultra or 0-3)")
	pf.Uint64Var(&seed, "seed", 0, "random seed")
	pf.Float64Var(&multiplier, "multiplier", config.DefaultMultiplier, "time multiplier")
	pf.IntVar(&fps, "fps", 0, "frame rate")
	pf.StringVar(&view, "view", "", "camera view (inside, outside)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "render the simulation in the terminal",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "render the simulation in a window",
		RunE:  runGUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "frames to simulate")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write an image of one frame (png or svg)",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate before capture")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "attractor.png", "output file (.png or .svg)")
	snapshotCmd.Flags().IntVar(&width, "width", 1280, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 720, "image height")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "render svg through the terminal braille canvas")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write each metric as svg into this directory")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "list the dominant periods of each metric")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frames per second at each quality",
		RunE:  benchQualities,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per quality")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep attractor mass or time multiplier",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "mass", "parameter to sweep (mass, multiplier)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 250, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 300, "frames per value")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run a preset under many random seeds",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().IntVar(&trialFrames, "frames", 300, "frames per trial")
	monteCarloCmd.Flags().Float64Var(&escapeMax, "escape-limit", 0.1, "largest escaped fraction of a bound trial")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (0 = one per cpu)")

	rootCmd.AddCommand(liveCmd, guiCmd, serveCmd, runCmd, snapshotCmd,
		listCmd, plotCmd, exportCmd, presetsCmd, benchCmd,
		scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config from --config or --preset, then applies the
// individual flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg = c
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	} else if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %s)",
				preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
		name = preset
	}

	flags := cmd.Flags()
	if flags.Changed("quality") {
		cfg.Quality = quality
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("multiplier") {
		cfg.Multiplier = multiplier
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("view") {
		cfg.Camera.View = view
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func newSimulation(cfg *config.Config) (*sim.Simulation, error) {
	s, err := cfg.NewSimulation(logger)
	if err != nil {
		return nil, err
	}
	experiment.NewRegistry().Attach(s)
	return s, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	start := func(name string) (*sim.Simulation, int, error) {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return nil, 0, fmt.Errorf("unknown preset: %s", name)
		}
		s, err := newSimulation(cfg)
		return s, cfg.FPS, err
	}
	return viz.RunInteractive(config.ListPresets(), describePreset, start)
}

func describePreset(name string) string {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return ""
	}
	motions := make([]string, len(cfg.Attractors))
	for i, a := range cfg.Attractors {
		motions[i] = a.Motion
	}
	return fmt.Sprintf("%s quality, %s", cfg.Quality, strings.Join(motions, " + "))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	return viz.RunLive(s, name, cfg.FPS)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	gui.Run(s, name, cfg.FPS)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return stream.ListenAndServe(ctx, addr, stream.NewHub(s, cfg.FPS, logger))
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{Preset: name, Sim: cfg, Frames: runFrames})
	if err := exp.Setup(logger, nil); err != nil {
		return err
	}
	rec := storage.NewRecorder(exp.GetSimulator())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:     name,
		Quality:    cfg.Quality,
		Particles:  result.Particles,
		Seed:       cfg.Seed,
		Multiplier: cfg.Multiplier,
		Elapsed:    result.Elapsed,
		Degenerate: result.Diagnostics.DegenerateContacts,
		Anomalies:  result.Diagnostics.ClockAnomalies,
		Metrics:    result.Metrics,
	}, rec)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("particles: %d\n", result.Particles)
	fmt.Printf("frames: %d (%.3fs simulated, %v wall)\n", result.Frames, result.Elapsed, result.Wall)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, values[name])
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}

	clock := &dynamo.ManualTime{}
	q, _ := cfg.QualityLevel()
	opts, err := cfg.Options(logger)
	if err != nil {
		return err
	}
	s, err := sim.New(q, append(opts, sim.WithTimeSource(clock.Now))...)
	if err != nil {
		return err
	}
	v, _ := cfg.ViewMode()
	s.SetViewMode(v)
	s.SetAspect(float64(width) / float64(height))

	var canvas *viz.Canvas
	if braille {
		canvas = viz.NewCanvas(width/(2*brailleScale), height/(4*brailleScale))
		s.SetAspect(viz.CanvasAspect(canvas))
	}

	var f *sim.Frame
	for i := 0; i < max(snapFrames, 1); i++ {
		clock.Advance(1 / float64(cfg.FPS))
		f = s.AdvanceFrame()
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".svg":
		svg := export.FrameToSVG(f, width, height)
		if canvas != nil {
			viz.RenderFrame(canvas, f, viz.GetTheme(""))
			svg = export.CanvasToSVG(canvas, brailleScale)
		}
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
	case ".png":
		if err := export.SavePNG(outPath, f, width, height); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported snapshot format: %s", outPath)
	}

	fmt.Printf("wrote %s (frame %d, %s view)\n", outPath, f.Index, s.ViewMode())
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tQUALITY\tPARTICLES\tFRAMES\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Quality,
			run.Particles,
			run.Frames,
			run.Elapsed,
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

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", meta.Frames)

	if svgOut != "" {
		if err := os.MkdirAll(svgOut, 0755); err != nil {
			return err
		}
	}

	for _, name := range meta.MetricNames {
		data := series[name]
		if len(data) == 0 {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgOut != "" {
			path := filepath.Join(svgOut, name+".svg")
			if err := os.WriteFile(path, []byte(export.SeriesToSVG(data, 800, 200, "#ff8c42")), 0644); err != nil {
				return err
			}
		}
	}

	if spectrum {
		return printSpectrum(meta.MetricNames, series)
	}
	return nil
}

func printSpectrum(names []string, series map[string][]float64) error {
	dt := analysis.SampleInterval(series["elapsed"])
	if dt <= 0 {
		return fmt.Errorf("run has too few frames for a spectrum")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tRANK\tPERIOD (s)\tFREQ (Hz)\tPOWER")
	for _, name := range names {
		peaks := analysis.DominantPeriods(series[name], dt, 3)
		if len(peaks) == 0 {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", name)
			continue
		}
		for i, p := range peaks {
			fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3g\n", name, i+1, p.Period, p.Frequency, p.Power)
		}
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tQUALITY\tATTRACTORS\tVIEW\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		v := cfg.Camera.View
		if v == "" {
			v = "inside"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", name, cfg.Quality, len(cfg.Attractors), v, describePreset(name))
	}
	return w.Flush()
}

func benchQualities(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %d frames per quality\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUALITY\tPARTICLES\tFRAMES\tTIME\tFRAMES/SEC")

	for _, q := range []string{"low", "medium", "high", "ultra"} {
		cfg := config.GetPreset(q)
		cfg.Seed = 42

		exp := experiment.New(experiment.Config{Preset: q, Sim: cfg, Frames: benchFrames})
		if err := exp.Setup(nil, nil); err != nil {
			return err
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.1f\n",
			q, result.Particles, result.Frames, result.Wall,
			float64(result.Frames)/result.Wall.Seconds())
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := automation.RunScenario(ctx, scenario, nil, logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for i, r := range results {
		fmt.Printf("step %d: %s quality, %d particles, %.3fs simulated\n",
			i+1, r.Config.Quality, r.Result.Particles, r.Result.Elapsed)
		printMetrics(r.Result.Metrics)

		if r.Step.SaveAs == "" {
			continue
		}
		if err := st.Init(); err != nil {
			return err
		}
		if _, err := st.Save(storage.RunMetadata{
			ID:         r.Step.SaveAs,
			Preset:     r.Step.Preset,
			Quality:    r.Config.Quality,
			Particles:  r.Result.Particles,
			Seed:       r.Config.Seed,
			Multiplier: r.Config.Multiplier,
			Frames:     r.Result.Frames,
			Elapsed:    r.Result.Elapsed,
			Degenerate: r.Result.Diagnostics.DegenerateContacts,
			Anomalies:  r.Result.Diagnostics.ClockAnomalies,
			Metrics:    r.Result.Metrics,
		}, nil); err != nil {
			return err
		}
		fmt.Printf("  saved as %s\n", r.Step.SaveAs)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := preset
	if name == "" {
		name = config.DefaultQuality
	}
	sweep := &automation.ParameterSweep{
		Preset:    name,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    sweepFrames,
		Seed:      seed,
	}

	results, err := automation.RunSweep(context.Background(), sweep, nil, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN SPEED\tSPREAD\tESCAPED\tDEGENERATE\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.3f\t%d\n",
			r.ParamValue, r.Metrics["mean_speed"], r.Metrics["spread"], r.Metrics["escaped"], r.Degenerate)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	name := preset
	if name == "" {
		name = config.DefaultQuality
	}
	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Preset:      name,
		NumTrials:   trials,
		Frames:      trialFrames,
		Seed:        seed,
		EscapeLimit: escapeMax,
		Workers:     workers,
	}, nil, logger)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("preset: %s\n", name)
	fmt.Printf("trials: %d (bound %d, escaping %d)\n", len(results), stable, unstable)
	return nil
}
