package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/holesim/internal/config"
	"github.com/san-kum/holesim/internal/export"
	"github.com/san-kum/holesim/internal/metrics"
	"github.com/san-kum/holesim/internal/optim"
	"github.com/san-kum/holesim/internal/sim"
	"github.com/san-kum/holesim/internal/viz"
)

var (
	configFile string
	dt         float64
	duration   float64
	integrator string
	gravity    float64
	seed       int64
	parallel   bool
	plot       bool
	frameRate  int
	outFile    string
	svgOut     string
	svgWidth   int
	svgHeight  int
	trails     int
	numRuns    int
	params     []string
	metricName string
	maximize   bool
)

// main registers the holesim commands and exits 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "holesim",
		Short:        "poolballs and blackholes in the terminal",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headless and summarise it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", true, "plot survivors and kinetic energy")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	svgCmd := &cobra.Command{
		Use:   "svg [preset]",
		Short: "render the final frame of a run as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	addSimFlags(svgCmd)
	svgCmd.Flags().StringVar(&svgOut, "out", "holesim.svg", "output file")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	svgCmd.Flags().IntVar(&trails, "trails", 0, "record a trail point every n steps (0 disables trails)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run many seeds and report survival statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 16, "number of runs")

	searchCmd := &cobra.Command{
		Use:   "search [preset]",
		Short: "grid search scenario parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&params, "param", nil, "name=v1,v2,... (repeatable; one of "+strings.Join(config.Tunable(), ", ")+")")
	searchCmd.Flags().StringVar(&metricName, "metric", "survival", "metric to optimise")
	searchCmd.Flags().BoolVar(&maximize, "maximize", true, "maximise the metric instead of minimising it")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tHOLES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(p.Bodies), len(p.Attractors), p.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [preset]",
		Short: "print or save a scenario as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpConfig,
	}
	configCmd.Flags().StringVar(&outFile, "out", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, liveCmd, svgCmd, sweepCmd, searchCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "semi_implicit", "integrator")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational constant")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for break jitter")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "step balls in parallel")
}

// loadScenario picks the config file, the preset named in args or the
// default scenario, then applies any flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	preset := ""
	if len(args) > 0 {
		preset = args[0]
	}
	cfg, err := config.Resolve(configFile, preset)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type energyTrace struct {
	values []float64
}

func (e *energyTrace) OnStep(f sim.Frame) {
	e.values = append(e.values, metrics.FrameEnergy(f))
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	w, err := cfg.BuildWorld(cfg.Seed)
	if err != nil {
		return err
	}
	initial := w.Live()

	s := sim.New(w)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	trace := &energyTrace{}
	s.AddObserver(trace)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := s.Run(ctx, cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(cfg.Name))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTEG\tDT\tSTEPS\tTIME\tBALLS\tSURVIVORS\tEVENTS")
	fmt.Fprintf(tw, "%s\t%.4f\t%d\t%.2fs\t%d\t%d\t%d\n",
		w.Integrator().Name(), cfg.Dt, result.StepsTaken, w.Time(),
		initial, w.Live(), len(result.Events))
	tw.Flush()
	fmt.Println()

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(viz.Metric(name, fmt.Sprintf("%.6f", result.Metrics[name])))
	}

	if len(result.Events) > 0 {
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "STEP\tTIME\tBALL\tKIND\tHOLE")
		for _, e := range result.Events {
			fmt.Fprintf(tw, "%d\t%.3fs\t%d\t%s\t%d\n", e.Step, e.Time, e.Ball.ID, e.Ball.Kind, e.Attractor)
		}
		tw.Flush()
	}

	for _, err := range result.Errors {
		fmt.Println(viz.StatusDestroyed.Render(err.Error()))
	}

	if plot && len(result.Survivors) > 1 {
		fmt.Println()
		survivors := make([]float64, len(result.Survivors))
		for i, n := range result.Survivors {
			survivors[i] = float64(n)
		}
		fmt.Println(asciigraph.Plot(survivors,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("survivors"),
		))
		if len(trace.values) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(trace.values,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption("kinetic energy"),
			))
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg, frameRate)
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	palette, err := viz.NewPalette(cfg.Colors)
	if err != nil {
		return err
	}

	w, err := cfg.BuildWorld(cfg.Seed)
	if err != nil {
		return err
	}
	simCfg := cfg.SimConfig()
	simCfg.RecordEvery = trails

	result, err := sim.New(w).Run(cmd.Context(), simCfg)
	if err != nil {
		return err
	}

	var svg string
	if trails > 0 {
		svg = export.TrailsToSVG(append(result.Frames, w.Snapshot()), w.Attractors(), palette, svgWidth, svgHeight)
	} else {
		svg = export.FrameToSVG(w.Snapshot(), w.Attractors(), palette, svgWidth, svgHeight)
	}

	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.2fs, %d survivors)\n", svgOut, w.Time(), w.Live())
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	ens := sim.NewEnsemble(cfg.BuildWorld, numRuns, cfg.Seed).
		WithMetrics(func() []sim.Metric { return []sim.Metric{metrics.NewSurvival()} })

	results, err := ens.Run(cmd.Context(), cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s x%d", cfg.Name, numRuns)))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tSURVIVORS\tEVENTS\tTIME\t")

	for i, r := range results {
		initial := r.Survivors[0]
		final := r.Survivors[len(r.Survivors)-1]
		fmt.Fprintf(tw, "%d\t%d/%d\t%d\t%.2fs\t%s\n",
			cfg.Seed+int64(i), final, initial, len(r.Events), r.Times[len(r.Times)-1],
			viz.ProgressBar(r.Metrics["survival"], 20))
	}
	tw.Flush()

	mean, std := survivalStats(results)
	fmt.Println()
	fmt.Println(viz.Metric("mean survival", fmt.Sprintf("%.3f", mean)))
	fmt.Println(viz.Metric("std dev", fmt.Sprintf("%.3f", std)))
	return nil
}

// survivalStats is the mean and population standard deviation of the
// survival metric across runs.
func survivalStats(results []*sim.Result) (mean, std float64) {
	if len(results) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, r := range results {
		v := r.Metrics["survival"]
		sum += v
		sumSq += v * v
	}
	n := float64(len(results))
	mean = sum / n
	std = math.Sqrt(math.Max(sumSq/n-mean*mean, 0))
	return mean, std
}

// parseParams turns "name=v1,v2" specs into parallel name/value slices.
func parseParams(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseParams(params)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	sign := 1.0
	if maximize {
		sign = -1
	}

	eval := func(ctx context.Context, p map[string]float64) (float64, error) {
		cfg := base.Clone()
		for name, v := range p {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}
		w, err := cfg.BuildWorld(cfg.Seed)
		if err != nil {
			return 0, err
		}
		s := sim.New(w)
		for _, m := range metrics.Standard() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, cfg.SimConfig())
		if err != nil {
			return 0, err
		}
		v, ok := result.Metrics[metricName]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", metricName)
		}
		return sign * v, nil
	}

	best, trials, err := grid.Search(cmd.Context(), eval)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s: %d trials", base.Name, len(trials))))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(append(append([]string{}, names...), metricName), "\t")))
	for _, tr := range trials {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(tr.Params[name], 'g', -1, 64))
		}
		row = append(row, fmt.Sprintf("%.6f", sign*tr.Score))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	fmt.Println()
	for _, name := range names {
		fmt.Println(viz.Metric(name, strconv.FormatFloat(best.Params[name], 'g', -1, 64)))
	}
	fmt.Println(viz.Metric(metricName, fmt.Sprintf("%.6f", sign*best.Score)))
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	preset := ""
	if len(args) > 0 {
		preset = args[0]
	}
	cfg, err := config.Resolve(configFile, preset)
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
