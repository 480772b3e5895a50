package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/moldyn/internal/analysis"
	"github.com/san-kum/moldyn/internal/backend"
	"github.com/san-kum/moldyn/internal/config"
	"github.com/san-kum/moldyn/internal/experiment"
	"github.com/san-kum/moldyn/internal/export"
	"github.com/san-kum/moldyn/internal/storage"
	"github.com/san-kum/moldyn/internal/tui"
)

var (
	dataDir     string
	configFile  string
	preset      string
	integrator  string
	backendName string
	steps       int
	stepSize    float64
	temperature float64
	friction    float64
	errorTol    float64
	seed        int64
	copies      int
	particles   int
	sampleEvery int
	pngPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moldyn",
		Short: "molecular dynamics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}
	addRunFlags(liveCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write PNG files with this prefix instead of terminal output")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum and autocorrelation of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list model presets and config presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			fmt.Println("models:")
			for _, name := range reg.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("integrators:")
			for _, name := range reg.ListIntegrators() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("config presets:")
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list compute backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED")
			for _, b := range backend.All() {
				fmt.Fprintf(w, "%s\t%.0f\n", b.Name(), b.Speed())
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "compare backends on the same simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchBackends,
	}
	addRunFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, analyzeCmd, runsCmd, presetsCmd, backendsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "config preset name")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (verlet, langevin, variable-langevin, rpmd)")
	cmd.Flags().StringVar(&backendName, "backend", "", "force a backend instead of auto-selecting")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of integrator steps")
	cmd.Flags().Float64Var(&stepSize, "dt", 0, "step size (ps)")
	cmd.Flags().Float64Var(&temperature, "temp", 0, "temperature (K)")
	cmd.Flags().Float64Var(&friction, "friction", 0, "friction (1/ps)")
	cmd.Flags().Float64Var(&errorTol, "error-tol", 0, "error tolerance (variable-langevin)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&copies, "copies", 0, "ring polymer copies (rpmd)")
	cmd.Flags().IntVar(&particles, "particles", 0, "number of particles")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "steps between samples")
}

// buildConfig layers configuration: defaults, then a config preset or YAML
// file, then any explicitly set flags on top.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown config preset: %s (available: %v)", preset, config.ListPresets())
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
	if len(args) > 0 {
		cfg.Preset = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("temp") {
		cfg.Temperature = temperature
	}
	if flags.Changed("friction") {
		cfg.Friction = friction
	}
	if flags.Changed("error-tol") {
		cfg.ErrorTol = errorTol
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("copies") {
		cfg.Copies = copies
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s with %s...\n", cfg.Preset, cfg.Integrator)
	start := time.Now()

	result, err := experiment.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:      cfg.Preset,
		Integrator:  cfg.Integrator,
		Backend:     cfg.Backend,
		Seed:        cfg.Seed,
		StepSize:    cfg.StepSize,
		Steps:       result.StepsTaken,
		Temperature: cfg.Temperature,
		Metrics:     result.Metrics,
	}, result.Frames)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tDT\tINTEG\tTEMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\t%.0fK\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.StepSize,
			run.Integrator,
			run.Temperature,
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

	if pngPath != "" {
		if err := export.EnergyPlot(frames, meta.ID, pngPath+"_energy.png"); err != nil {
			return err
		}
		if err := export.TemperaturePlot(frames, meta.ID, pngPath+"_temperature.png"); err != nil {
			return err
		}
		fmt.Printf("wrote %s_energy.png and %s_temperature.png\n", pngPath, pngPath)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	total := make([]float64, len(frames))
	temps := make([]float64, len(frames))
	for i, f := range frames {
		total[i] = f.Kinetic + f.Potential
		temps[i] = f.Temperature
	}

	fmt.Println(asciigraph.Plot(total,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy (kJ/mol)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(temps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("temperature (K)"),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	dt, err := analysis.SampleInterval(frames)
	if err != nil {
		return err
	}
	series := analysis.KineticSeries(frames)

	spec, err := analysis.PowerSpectrum(series, dt)
	if err != nil {
		return err
	}
	peak := analysis.DominantFrequency(spec)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d, interval: %.4f ps\n", len(frames), dt)
	fmt.Printf("dominant kinetic-energy frequency: %.4f cycles/ps\n\n", peak.Frequency)

	power := make([]float64, len(spec))
	for i, p := range spec {
		power[i] = p.Power
	}
	fmt.Println(asciigraph.Plot(power,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy power spectrum"),
	))

	maxLag := len(series) / 4
	ac := analysis.Autocorrelation(series, maxLag)
	fmt.Println()
	fmt.Println(asciigraph.Plot(ac,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy autocorrelation"),
	))
	return nil
}

func benchBackends(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d steps)\n\n", cfg.Preset, cfg.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tTIME\tSTEPS/SEC")

	for _, b := range backend.All() {
		benchCfg := *cfg
		benchCfg.Backend = b.Name()

		start := time.Now()
		result, err := experiment.Run(context.Background(), &benchCfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\n", b.Name(), err)
			continue
		}
		fmt.Fprintf(w, "%s\t%v\t%.0f\n", b.Name(), elapsed,
			float64(result.StepsTaken)/elapsed.Seconds())
	}
	return w.Flush()
}
