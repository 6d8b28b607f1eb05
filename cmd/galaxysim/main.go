package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/galaxysim/internal/automation"
	"github.com/san-kum/galaxysim/internal/compute"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
	"github.com/san-kum/galaxysim/internal/tui"
	"github.com/san-kum/galaxysim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var (
	dataDir    string
	configFile string
	preset     string

	stars       int
	seed        int64
	dt          float64
	steps       int
	sampleEvery int
	rate        float64
	workers     int
	frameRate   int

	theme    string
	liveView bool

	metricName string
	seriesName string
	starIndex  int
	frameIndex int
	outPath    string
	svgSize    int

	numRuns      int
	benchTicks   int
	sweepMin     float64
	sweepMax     float64
	sweepPoints  int
	transient    int
	record       int
	perturbation float64
	lyapSteps    int
)

// main registers the galaxysim commands. With no subcommand it opens the
// live view.
func main() {
	rootCmd := &cobra.Command{
		Use:   "galaxysim",
		Short: "2D galaxy n-body simulator",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".galaxysim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive galaxy view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGalaxyFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addGalaxyFlags(runCmd)
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&liveView, "live", false, "draw the galaxy while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "mean_radius", "series to analyze")
	analyzeCmd.Flags().IntVar(&starIndex, "star", -1, "also plot the radial phase portrait of this star")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  lyapunovRun,
	}
	addGalaxyFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&lyapSteps, "ticks", 200, "ticks to follow")
	lyapunovCmd.Flags().Float64Var(&perturbation, "eps", 1e-6, "initial displacement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep halo mass and report disk response",
		Args:  cobra.NoArgs,
		RunE:  sweepHalo,
	}
	addGalaxyFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2.5e5, "lowest halo mass")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2e6, "highest halo mass")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 8, "halo masses to test")
	sweepCmd.Flags().IntVar(&transient, "transient", 50, "ticks before recording")
	sweepCmd.Flags().IntVar(&record, "record", 50, "ticks recorded")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a frame or a metric series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().StringVar(&seriesName, "series", "", "export this metric series instead of a frame")
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force backends",
		Args:  cobra.NoArgs,
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 20, "ticks per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run galaxies with consecutive seeds and compare metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addGalaxyFlags(ensembleCmd)
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of runs")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of galaxies from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, analyzeCmd, lyapunovCmd, sweepCmd,
		exportSVGCmd, exportJSONCmd, presetsCmd, benchCmd, ensembleCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGalaxyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&stars, "stars", galaxy.DefaultStarCount, "number of stars")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&dt, "dt", galaxy.DefaultTimeStep, "timestep")
	cmd.Flags().Float64Var(&rate, "rate", 1.0, "initial rotation speed multiplier")
	cmd.Flags().IntVar(&workers, "workers", 0, "force workers (0 auto, 1 serial)")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks to simulate")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "ticks between samples")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
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
	if flags.Changed("stars") {
		cfg.Stars = stars
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func backendFor(workers int) compute.Backend {
	switch {
	case workers == 1:
		return compute.NewSerialBackend()
	case workers > 1:
		return compute.NewParallelBackend(workers)
	}
	return compute.AutoSelectBackend()
}

// setup installs the configured backend and builds the engine and the
// initial galaxy.
func setup(cfg *config.Config) (*galaxy.Engine, *galaxy.System, error) {
	compute.SetBackend(backendFor(cfg.Workers))
	p := cfg.Params()
	in, err := galaxy.NewInitializer(p, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, nil, err
	}
	return galaxy.NewEngine(p, nil), in.Generate(cfg.Stars), nil
}

func runInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Preset:      preset,
		Seed:        cfg.Seed,
		Stars:       cfg.Stars,
		Dt:          cfg.Dt,
		Steps:       cfg.Steps,
		SampleEvery: cfg.SampleEvery,
		Rate:        cfg.Rate,
		Backend:     compute.GetBackend().Name(),
		Params:      cfg.Params(),
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	compute.SetBackend(backendFor(cfg.Workers))
	engine := galaxy.NewEngine(cfg.Params(), nil)

	controls := galaxy.NewControls()
	controls.SetRate(cfg.Rate)

	m := viz.NewModel(engine, controls, viz.Options{
		Stars:         cfg.Stars,
		Seed:          cfg.Seed,
		Dt:            cfg.Dt,
		FrameInterval: time.Second / time.Duration(cfg.FrameRate),
		Theme:         theme,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine, sys, err := setup(cfg)
	if err != nil {
		return err
	}
	runner := sim.New(engine)
	for _, m := range metrics.Defaults(cfg.Physics.GalaxyRadius) {
		runner.AddMetric(m)
	}

	if liveView {
		r := tui.NewLiveRenderer(cfg.Physics.GalaxyRadius, cfg.Steps, cfg.FrameRate)
		r.Start()
		defer r.Stop()
		runner.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running galaxy: %d stars, %d steps, seed %d, backend %s\n",
		cfg.Stars, cfg.Steps, cfg.Seed, compute.GetBackend().Name())
	start := time.Now()

	simCfg := sim.Config{Dt: cfg.Dt, Steps: cfg.Steps, SampleEvery: cfg.SampleEvery, Seed: cfg.Seed}
	result, runErr := runner.Run(ctx, sys, simCfg, galaxy.Control{Rate: cfg.Rate})
	if result == nil {
		return runErr
	}

	elapsed := time.Since(start)

	runID, err := st.Save(runInfo(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, values[name])
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
	fmt.Fprintln(w, "ID\tTIME\tSTARS\tSTEPS\tDT\tSEED\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4g\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Info.Stars,
			run.StepsTaken,
			run.Info.Dt,
			run.Info.Seed,
			run.Info.Backend,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTARS\tRADIUS\tHALO\tG\tDT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, cfg.Stars, cfg.Physics.GalaxyRadius, cfg.Physics.HaloMass, cfg.Physics.G, cfg.Dt)
	}
	return w.Flush()
}

func benchBackends(cmd *cobra.Command, args []string) error {
	counts := []int{250, 500, 1000, 2000}
	backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend()}

	fmt.Printf("benchmarking %d ticks per configuration\n\n", benchTicks)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARS\tBACKEND\tTICKS\tTIME\tTICKS/SEC")

	ctl := galaxy.DefaultControl()
	for _, n := range counts {
		for _, b := range backends {
			engine := galaxy.NewEngine(galaxy.DefaultParams(), b)
			sys := galaxy.Initialize(n, 42)

			start := time.Now()
			for i := 0; i < benchTicks; i++ {
				if err := engine.Tick(sys, galaxy.DefaultTimeStep, ctl); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.1f\n",
				n, b.Name(), benchTicks, elapsed, float64(benchTicks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	radius := cfg.Physics.GalaxyRadius
	ens := sim.NewEnsemble(cfg.Params(), cfg.Stars, numRuns, cfg.Seed, func() []metrics.Metric {
		return metrics.Defaults(radius)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d galaxies from seed %d...\n", numRuns, cfg.Seed)
	start := time.Now()

	results, err := ens.Run(ctx, sim.Config{Dt: cfg.Dt, Steps: cfg.Steps, SampleEvery: cfg.SampleEvery})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		values := make([]float64, len(results))
		for i, r := range results {
			values[i] = r.Metrics[name]
		}
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", name, mean, std, sorted[0], sorted[len(sorted)-1])
	}
	return w.Flush()
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	outcomes, err := automation.RunScenario(ctx, sc, st, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tKINETIC\tMEAN R\tCONTAINED")
	for _, o := range outcomes {
		id := o.RunID
		if id == "" {
			id = "-"
		}
		m := o.Result.Metrics
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.3f\t%.1f%%\n",
			o.Name, id, m["kinetic_energy"], m["mean_radius"], 100*m["containment"])
	}
	return w.Flush()
}
