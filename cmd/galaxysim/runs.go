package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/galaxysim/internal/analysis"
	"github.com/san-kum/galaxysim/internal/export"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
	"github.com/spf13/cobra"
)

// loadResult rebuilds a stored run as a sim.Result.
func loadResult(st *storage.Store, runID string) (*storage.RunMetadata, *sim.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Times:      meta.Times,
		Frames:     make([][]galaxy.Star, len(frames)),
		Series:     meta.Series,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
	}
	for i, f := range frames {
		result.Frames[i] = f.Stars
	}
	return meta, result, nil
}

func sampleInterval(meta *storage.RunMetadata) float64 {
	if len(meta.Times) > 1 {
		return meta.Times[1] - meta.Times[0]
	}
	return meta.Info.Dt * float64(meta.Info.SampleEvery)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if len(meta.Series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("stars: %d  seed: %d\n", meta.Info.Stars, meta.Info.Seed)
	fmt.Printf("samples: %d\n\n", len(meta.Times))

	names := make([]string, 0, len(meta.Series))
	for name := range meta.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := meta.Series[name]
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
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := loadResult(st, runID)
	if err != nil {
		return err
	}

	data, ok := meta.Series[metricName]
	if !ok || len(data) < 4 {
		return fmt.Errorf("series %q missing or too short", metricName)
	}

	interval := sampleInterval(meta)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("series: %s (%d samples every %.3g)\n\n", metricName, len(data), interval)

	bins := analysis.Spectrum(data, interval)
	power := make([]float64, len(bins)-1)
	for i, b := range bins[1:] {
		power[i] = b.Power
	}
	graph := asciigraph.Plot(power,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+metricName+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := analysis.DominantFrequency(data, interval)
	fmt.Printf("dominant frequency: %.4g cycles per unit time\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4g\n", 1.0/freq)
	}

	if starIndex >= 0 {
		portrait := analysis.RadialPhase(result.Frames, starIndex)
		if portrait == nil || len(portrait.Points) == 0 {
			return fmt.Errorf("star %d not found in run", starIndex)
		}
		fmt.Printf("\nradial phase of star %d (x: r, y: v_r)\n\n", starIndex)
		fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))
	}
	return nil
}

func lyapunovRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if perturbation <= 0 {
		return fmt.Errorf("eps must be positive, got %g", perturbation)
	}

	engine, sys, err := setup(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("following %d stars for %d ticks (seed %d)...\n", cfg.Stars, lyapSteps, cfg.Seed)
	lambda, err := analysis.LyapunovExponent(engine, sys, cfg.Dt, lyapSteps, perturbation)
	if err != nil {
		return err
	}

	fmt.Printf("largest lyapunov exponent: %.6f\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.4g\n", 1/lambda)
	}
	return nil
}

func sweepHalo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepMax < sweepMin || sweepMin < 0 {
		return fmt.Errorf("invalid halo range [%g, %g]", sweepMin, sweepMax)
	}

	fmt.Printf("sweeping halo mass %.4g..%.4g over %d points...\n\n", sweepMin, sweepMax, sweepPoints)

	points, err := analysis.HaloSweep(analysis.SweepConfig{
		Params:    cfg.Params(),
		Stars:     cfg.Stars,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Transient: transient,
		Record:    record,
		Backend:   backendFor(cfg.Workers),
	}, sweepMin, sweepMax, sweepPoints)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HALO\tMEAN R\tMIN R\tMAX R\tCONTAINED")
	radii := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%.4g\t%.3f\t%.3f\t%.3f\t%.1f%%\n",
			p.HaloMass, p.MeanRadius, p.MinRadius, p.MaxRadius, 100*p.Containment)
		radii[i] = p.MeanRadius
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(radii) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(radii,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("mean radius vs halo mass"),
		))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := loadResult(st, runID)
	if err != nil {
		return err
	}

	var svg string
	if seriesName != "" {
		data, ok := meta.Series[seriesName]
		if !ok {
			return fmt.Errorf("unknown series: %s", seriesName)
		}
		svg = export.SeriesToSVG(meta.Times, data, svgSize, svgSize/2, "#7aa2f7")
	} else {
		if len(result.Frames) == 0 {
			return fmt.Errorf("no frames to export")
		}
		idx := frameIndex
		if idx < 0 {
			idx += len(result.Frames)
		}
		if idx < 0 || idx >= len(result.Frames) {
			return fmt.Errorf("frame %d out of range (run has %d)", frameIndex, len(result.Frames))
		}
		svg = export.StarsToSVG(result.Frames[idx], meta.Info.Params.GalaxyRadius, svgSize)
	}

	if svg == "" {
		return fmt.Errorf("nothing to export")
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, result, err := loadResult(st, runID)
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.ExportJSONStdout(meta.Info, result)
	}
	if err := export.ExportJSON(outPath, meta.Info, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}
