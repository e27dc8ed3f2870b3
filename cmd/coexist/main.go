package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/san-kum/coexist/internal/analysis"
	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/config"
	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/experiment"
	"github.com/san-kum/coexist/internal/isotherm"
	"github.com/san-kum/coexist/internal/optim"
	"github.com/san-kum/coexist/internal/storage"
	"github.com/san-kum/coexist/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	preset     string
	temps      string
	modelName  string
	quadName   string
	vmin       float64
	vmax       float64
	samples    int
	tolerance  float64
	p0         float64
	gain       float64
	maxIter    int
	workers    int
	save       bool
	verbose    bool
	check      bool
	// sweep
	tmin  float64
	tmax  float64
	steps int
	// plot
	pmin    float64
	pmax    float64
	logv    bool
	ideal   bool
	outFile string
	width   int
	height  int
	// tune
	gainGrid     string
	pressureGrid string
	// export-csv
	resultsOnly bool
)

var (
	settings = viper.New()
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "coexist",
		Short:        "van der Waals liquid-vapor coexistence solver",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().String("data", ".coexist", "data directory (env COEXIST_DATA)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace solver iterations on stderr")
	settings.SetEnvPrefix("coexist")
	_ = settings.BindEnv("data")
	_ = settings.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve the configured isotherms",
		RunE:  runSolve,
	}
	addConfigFlags(solveCmd)
	solveCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	solveCmd.Flags().BoolVar(&check, "check", false, "report an independent equal-area residual")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve a range of temperatures and report the coexistence curve",
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tmin, "tmin", 250, "lowest temperature")
	sweepCmd.Flags().Float64Var(&tmax, "tmax", 340, "highest temperature")
	sweepCmd.Flags().IntVar(&steps, "steps", 10, "number of temperatures")
	sweepCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	sweepCmd.Flags().StringVar(&outFile, "out", "", "also write a P-V chart (png, svg, pdf)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot isotherms of a saved run or of the current configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	addConfigFlags(plotCmd)
	addPlotFlags(plotCmd)
	plotCmd.Flags().StringVar(&outFile, "out", "", "write the chart to a file (png, svg, pdf) instead of the terminal")
	plotCmd.Flags().IntVar(&width, "width", 80, "terminal plot width")
	plotCmd.Flags().IntVar(&height, "height", 20, "terminal plot height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&resultsOnly, "results", false, "export one row per temperature instead of samples")
	addWindowFlags(exportCSVCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")
	addWindowFlags(exportJSONCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-18s %s/%s T=%v\n", name, p.Model, p.Quadrature, p.Temperatures)
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the solver gain and initial pressure",
		RunE:  runTune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&gainGrid, "gains", "0.25,0.5,1,2", "comma separated gains to try")
	tuneCmd.Flags().StringVar(&pressureGrid, "pressures", "", "comma separated initial pressures to try")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive temperature explorer",
		RunE:  runExplore,
	}
	addConfigFlags(exploreCmd)

	rootCmd.AddCommand(solveCmd, sweepCmd, plotCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, presetsCmd, tuneCmd, exploreCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func dataDir() string {
	return settings.GetString("data")
}

func newExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	exp.Solver().AddObserver(traceObserver(logger))
	return exp, nil
}

func traceObserver(l *slog.Logger) coexist.Observer {
	return coexist.ObserverFunc(func(it coexist.Iteration) {
		l.Debug("iteration",
			"T", it.Temperature,
			"i", it.Index,
			"p", it.Pressure,
			"v1", it.VLiquid,
			"v2", it.VGas,
			"diff", it.Difference,
		)
	})
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	rec := coexist.NewRecorder()
	if verbose {
		exp.Solver().AddObserver(rec)
	}

	fmt.Printf("solving %d isotherm(s) with %s/%s...\n", len(cfg.Temperatures), cfg.Model, cfg.Quadrature)
	start := time.Now()

	results, err := exp.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Println(viz.ResultsTable(results))
	for _, r := range results {
		fmt.Println(viz.FormatResult(r))
	}
	if verbose {
		printConvergence(rec, results)
	}
	if check {
		for _, r := range analysis.Converged(results) {
			res := analysis.Residual(exp.Model(), r, analysis.DefaultResidualPoints)
			fmt.Printf("  T = %g K: independent residual %.3e\n", r.Temperature, res)
		}
	}
	fmt.Printf("completed in %v\n", elapsed)

	if save {
		runID, err := saveRun(exp, cfg.Isotherms(), results)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func printConvergence(rec *coexist.Recorder, results []coexist.Result) {
	opts := viz.DefaultGraphOptions()
	opts.Width, opts.Height = 60, 10
	for _, r := range results {
		pressures := rec.PressuresAt(r.Temperature)
		if len(pressures) < 2 {
			continue
		}
		psat := math.NaN()
		if r.Converged {
			psat = r.Pressure
		}
		opts.Caption = fmt.Sprintf("T = %g K, trial pressure per iteration", r.Temperature)
		fmt.Println(viz.ConvergenceGraph(pressures, psat, opts))
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("temps") {
		cfg.Temperatures = analysis.Temperatures(tmin, tmax, steps)
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	crit := eos.Critical(cfg.Substance)
	fmt.Printf("sweeping %d temperatures, Tc = %.2f K\n", len(cfg.Temperatures), crit.T)

	results, err := analysis.Sweep(cmd.Context(), exp.Solver(), cfg.IsothermAt(0), cfg.Temperatures, cfg.Solver, cfg.Workers)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Println(viz.ResultsTable(results))
	if g := viz.BinodalGraph(results, viz.DefaultGraphOptions()); g != "" {
		fmt.Println(g)
	}
	if !analysis.GapMonotonic(results) {
		fmt.Println(viz.StatusFailed.Render("warning: coexistence gap does not shrink monotonically with temperature"))
	}

	if outFile != "" {
		curves := viz.Curves(exp.Model(), cfg.Temperatures, cfg.Isotherm.VolumeMin, cfg.Isotherm.VolumeMax, 2000, true)
		opts := viz.DefaultPlotOptions()
		opts.Title = "Coexistence curve"
		opts.PressureMin, opts.PressureMax = cfg.Plot.PressureMin, cfg.Plot.PressureMax
		opts.LogVolume = true
		if err := viz.SavePlot(outFile, curves, results, opts); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		fmt.Printf("wrote %s\n", outFile)
	}

	if save {
		runID, err := saveRun(exp, cfg.Isotherms(), results)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func saveRun(exp *experiment.Experiment, isos []coexist.Isotherm, results []coexist.Result) (string, error) {
	st := storage.New(dataDir())
	if err := st.Init(); err != nil {
		return "", err
	}

	cfg := exp.Config()
	series := make([]storage.Series, len(isos))
	for i, iso := range isos {
		series[i] = storage.Series{
			Temperature: iso.Temperature,
			Samples:     isotherm.Collect(isotherm.Samples(exp.Model(), iso.Temperature, iso.VolumeMin, iso.VolumeMax, iso.Samples)),
		}
	}

	meta := storage.RunMetadata{
		Model:      cfg.Model,
		Quadrature: cfg.Quadrature,
		Substance:  cfg.Substance,
		Solver:     cfg.Solver,
		Isotherms:  isos,
		Results:    results,
	}
	runID, err := st.Save(meta, series)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	logger.Debug("saved run", "id", runID, "dir", dataDir())
	return runID, nil
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&pmin, "pmin", 0, "lowest visible pressure")
	cmd.Flags().Float64Var(&pmax, "pmax", 100, "highest visible pressure")
	cmd.Flags().BoolVar(&logv, "logv", false, "logarithmic volume axis")
	cmd.Flags().BoolVar(&ideal, "ideal", false, "draw the ideal gas isotherm alongside")
}

// applyPlotFlags copies the plot flags onto cfg. Stored runs carry no plot
// section, so all applies the flag defaults as well.
func applyPlotFlags(cmd *cobra.Command, cfg *config.Config, all bool) {
	f := cmd.Flags()
	if all || f.Changed("pmin") {
		cfg.Plot.PressureMin = pmin
	}
	if all || f.Changed("pmax") {
		cfg.Plot.PressureMax = pmax
	}
	if all || f.Changed("logv") {
		cfg.Plot.LogVolume = logv
	}
	if all || f.Changed("ideal") {
		cfg.Plot.Ideal = ideal
	}
}

func runPlot(cmd *cobra.Command, args []string) error {
	var (
		curves  []viz.Curve
		results []coexist.Result
		model   eos.Model
		cfg     *config.Config
		err     error
	)

	registry := experiment.NewRegistry()
	if len(args) == 1 {
		curves, results, model, err = loadRunCurves(registry, args[0])
		if err != nil {
			return err
		}
		cfg = config.DefaultConfig()
		applyPlotFlags(cmd, cfg, true)
		if outFile == "" {
			for i := range curves {
				curves[i].Samples = downsample(curves[i].Samples, width)
			}
		}
	} else {
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		exp, err := newExperiment(cfg)
		if err != nil {
			return err
		}
		model = exp.Model()
		results, err = exp.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("solve: %w", err)
		}
		n := 2000
		if outFile == "" {
			n = width
		}
		applyPlotFlags(cmd, cfg, false)
		curves = viz.Curves(model, cfg.Temperatures, cfg.Isotherm.VolumeMin, cfg.Isotherm.VolumeMax, n, cfg.Plot.LogVolume)
	}

	if cfg.Plot.Ideal {
		gas := eos.NewIdealGas(model.Substance())
		var vs []float64
		if len(curves) > 0 {
			vs, _ = isotherm.Split(curves[0].Samples)
		}
		for _, t := range overlayTemps(results) {
			curves = append(curves, viz.Curve{
				Label:   fmt.Sprintf("ideal T = %g K", t),
				Samples: isotherm.Collect(isotherm.AtVolumes(gas, t, vs)),
			})
		}
	}

	if outFile != "" {
		opts := viz.DefaultPlotOptions()
		opts.PressureMin, opts.PressureMax = cfg.Plot.PressureMin, cfg.Plot.PressureMax
		opts.LogVolume = cfg.Plot.LogVolume
		if err := viz.SavePlot(outFile, curves, results, opts); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	opts := viz.GraphOptions{
		Width:       width,
		Height:      height,
		PressureMin: cfg.Plot.PressureMin,
		PressureMax: cfg.Plot.PressureMax,
		Caption:     "pressure vs volume",
	}
	fmt.Println(viz.IsothermGraph(curves, reference(results), opts))
	for _, r := range results {
		fmt.Println(viz.FormatResult(r))
	}
	return nil
}

// reference picks the saturation line to draw: the first converged result.
func reference(results []coexist.Result) *coexist.Result {
	for i := range results {
		if results[i].Converged {
			return &results[i]
		}
	}
	return nil
}

func overlayTemps(results []coexist.Result) []float64 {
	ts := make([]float64, 0, len(results))
	for _, r := range results {
		ts = append(ts, r.Temperature)
	}
	return ts
}

func loadRunCurves(registry *experiment.Registry, runID string) ([]viz.Curve, []coexist.Result, eos.Model, error) {
	st := storage.New(dataDir())
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(series) == 0 {
		return nil, nil, nil, fmt.Errorf("no data to plot")
	}
	model, err := registry.GetModel(meta.Model, meta.Substance)
	if err != nil {
		return nil, nil, nil, err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s)\n", meta.Model, meta.Substance.Name)

	curves := make([]viz.Curve, len(series))
	for i, s := range series {
		curves[i] = viz.Curve{
			Label:   fmt.Sprintf("%s T = %g K", meta.Model, s.Temperature),
			Samples: s.Samples,
		}
	}
	return curves, meta.Results, model, nil
}

// downsample keeps about n evenly strided samples for terminal plots.
func downsample(samples []isotherm.Sample, n int) []isotherm.Sample {
	if n <= 0 || len(samples) <= n {
		return samples
	}
	step := len(samples) / n
	out := make([]isotherm.Sample, 0, n+1)
	for i := 0; i < len(samples); i += step {
		out = append(out, samples[i])
	}
	return out
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tQUAD\tTIME\tSUBSTANCE\tTEMPS\tCONVERGED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Quadrature,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Substance.Name,
			len(run.Results),
			len(analysis.Converged(run.Results)),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	crit := eos.Critical(meta.Substance)
	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Println(viz.Metric("model", meta.Model+"/"+meta.Quadrature))
	fmt.Println(viz.Metric("substance", fmt.Sprintf("%s a=%g b=%g R=%g", meta.Substance.Name, meta.Substance.A, meta.Substance.B, meta.Substance.R)))
	fmt.Println(viz.Metric("critical", fmt.Sprintf("Tc=%.2f Pc=%.3f Vc=%.4f", crit.T, crit.P, crit.V)))
	fmt.Println(viz.Metric("solver", fmt.Sprintf("tol=%g p0=%g gain=%g max=%d",
		meta.Solver.Tolerance, meta.Solver.InitialPressure, meta.Solver.Gain, meta.Solver.MaxIterations)))
	fmt.Println(viz.ResultsTable(meta.Results))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir())
	if resultsOnly {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		return storage.WriteResultsCSV(os.Stdout, meta)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteSeriesCSV(os.Stdout, windowSeries(cmd, series))
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	series = windowSeries(cmd, series)
	if outFile != "" {
		return storage.ExportJSONFile(outFile, meta, series)
	}
	return storage.ExportJSON(os.Stdout, meta, series)
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&pmin, "pmin", math.Inf(-1), "drop samples below this pressure")
	cmd.Flags().Float64Var(&pmax, "pmax", math.Inf(1), "drop samples above this pressure")
}

// windowSeries narrows series to [--pmin, --pmax] when either flag is set.
func windowSeries(cmd *cobra.Command, series []storage.Series) []storage.Series {
	f := cmd.Flags()
	if !f.Changed("pmin") && !f.Changed("pmax") {
		return series
	}
	return storage.WindowSeries(series, pmin, pmax)
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	params := []string{optim.ParamGain}
	gains, err := parseFloats(gainGrid)
	if err != nil {
		return fmt.Errorf("--gains: %w", err)
	}
	ranges := [][]float64{gains}
	if pressureGrid != "" {
		ps, err := parseFloats(pressureGrid)
		if err != nil {
			return fmt.Errorf("--pressures: %w", err)
		}
		params = append(params, optim.ParamInitialPressure)
		ranges = append(ranges, ps)
	}

	if len(cfg.Temperatures) == 0 {
		return fmt.Errorf("no temperatures configured")
	}
	iso := cfg.IsothermAt(cfg.Temperatures[0])
	fmt.Printf("tuning at T = %g K over %v\n", iso.Temperature, params)

	best, all, err := optim.NewGridSearch(params, ranges).Search(cmd.Context(), exp.Solver(), iso, cfg.Solver)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAIN\tP0\tITER\tSTATUS")
	for _, c := range all {
		p0 := cfg.Solver.InitialPressure
		if v, ok := c.Params[optim.ParamInitialPressure]; ok {
			p0 = v
		}
		state := "converged"
		if !c.Result.Converged {
			state = c.Result.Reason
		}
		fmt.Fprintf(w, "%g\t%g\t%d\t%s\n", c.Params[optim.ParamGain], p0, c.Result.Iterations, state)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Println(viz.Metric("best", fmt.Sprintf("%v in %d iterations", best.Params, best.Result.Iterations)))
	fmt.Println(viz.FormatResult(best.Result))
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}
	// tracing would draw over the alternate screen
	logLevel.Set(slog.LevelInfo)
	return viz.RunExplorer(cfg, exp.Solver())
}
