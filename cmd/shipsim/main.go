package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/shipsim/internal/config"
	"github.com/san-kum/shipsim/internal/hydro"
	"github.com/san-kum/shipsim/internal/server"
	"github.com/san-kum/shipsim/internal/ship"
	"github.com/san-kum/shipsim/internal/sim"
	"github.com/san-kum/shipsim/internal/storage"
	"github.com/san-kum/shipsim/internal/viz"
	"github.com/san-kum/shipsim/internal/wave"
)

var (
	configFile string
	dataDir    string
	logLevel   string

	shipPreset  string
	seaPreset   string
	sessionFile string
	savePath    string

	dt        float64
	duration  float64
	sampleSec float64
	damping   float64
	seed      int64
	useRK4    bool
	label     string

	frameRate  int
	listenAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shipsim",
		Short: "ship stability and wave response simulator",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace..error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch simulation and record it",
		RunE:  runBatch,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 120.0, "simulated duration, seconds")
	runCmd.Flags().Float64Var(&sampleSec, "sample", 0.5, "sample interval, seconds")
	runCmd.Flags().StringVar(&label, "label", "", "run label")
	runCmd.Flags().StringVar(&savePath, "save", "", "write the configured session to a yaml file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view",
		RunE:  runLive,
	}
	addSessionFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation JSON API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address")
	serveCmd.Flags().Float64Var(&dt, "dt", 0, "integration timestep")

	gzCmd := &cobra.Command{
		Use:   "gz",
		Short: "print the righting arm curve for a loading condition",
		RunE:  plotGZ,
	}
	addSessionFlags(gzCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in ship and sea presets",
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, gzCmd, presetsCmd, runsCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&shipPreset, "ship", "", "ship preset name")
	cmd.Flags().StringVar(&seaPreset, "sea", "", "sea state preset name")
	cmd.Flags().StringVar(&sessionFile, "load", "", "load a saved session (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "integration timestep")
	cmd.Flags().Float64Var(&damping, "damping", -1, "damping ratio")
	cmd.Flags().Int64Var(&seed, "seed", 0, "wave phase seed")
	cmd.Flags().BoolVar(&useRK4, "rk4", false, "use RK4 instead of semi-implicit Euler")
}

// loadApp merges the config file with command-line overrides. Flags win when
// explicitly set.
func loadApp(cmd *cobra.Command) (*config.App, error) {
	app, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		app.DataDir = dataDir
	}
	if logLevel != "" {
		app.LogLevel = logLevel
	}
	if cmd.Flags().Changed("ship") {
		app.ShipPreset = shipPreset
	}
	if cmd.Flags().Changed("sea") {
		app.SeaPreset = seaPreset
	}
	if cmd.Flags().Changed("dt") {
		app.Dt = dt
	}
	if cmd.Flags().Changed("damping") {
		app.Damping = damping
	}
	if cmd.Flags().Changed("seed") {
		app.Seed = seed
	}
	if cmd.Flags().Changed("listen") {
		app.ListenAddr = listenAddr
	}
	return app, nil
}

func newLogger(app *config.App) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(app.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// buildState resolves the loading condition: a saved session file when given,
// the configured ship preset otherwise.
func buildState(app *config.App) (*ship.State, error) {
	if sessionFile != "" {
		return ship.Load(sessionFile)
	}
	p := config.GetShipPreset(app.ShipPreset)
	if p == nil {
		return nil, fmt.Errorf("unknown ship preset %q (available: %v)", app.ShipPreset, config.ListShipPresets())
	}
	return ship.NewState(p.Hull, p.Tanks)
}

func buildField(app *config.App) (*wave.Field, *config.SeaPreset, error) {
	p := config.GetSeaPreset(app.SeaPreset)
	if p == nil {
		return nil, nil, fmt.Errorf("unknown sea preset %q (available: %v)", app.SeaPreset, config.ListSeaPresets())
	}
	f, err := wave.FromSeaState(p.Hs, p.Tp, p.Components, app.Seed)
	if err != nil {
		return nil, nil, err
	}
	return f, p, nil
}

func simConfig(app *config.App) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = app.Dt
	cfg.DampingRatio = app.Damping
	cfg.WindowSeconds = app.WindowSec
	cfg.UseRK4 = useRK4
	return cfg
}

func openStore(app *config.App, log zerolog.Logger) (*storage.Store, error) {
	if err := os.MkdirAll(app.DataDir, 0755); err != nil {
		return nil, err
	}
	return storage.Open(filepath.Join(app.DataDir, "runs.db"), log)
}

func runBatch(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	log := newLogger(app)

	state, err := buildState(app)
	if err != nil {
		return err
	}
	if savePath != "" {
		if err := ship.Save(savePath, state); err != nil {
			return err
		}
		log.Info().Str("path", savePath).Msg("session saved")
	}

	field, sea, err := buildField(app)
	if err != nil {
		return err
	}

	orch, err := sim.New(state, field, simConfig(app))
	if err != nil {
		return err
	}

	coeffs, err := hydro.Metacenter(state)
	if err != nil {
		return err
	}

	store, err := openStore(app, log)
	if err != nil {
		return err
	}
	defer store.Close()

	run := &storage.Run{
		Label:      label,
		ShipPreset: app.ShipPreset,
		SeaPreset:  app.SeaPreset,
		Seed:       app.Seed,
		Dt:         app.Dt,
		GM:         coeffs.GM,
		Hs:         sea.Hs,
		Tp:         sea.Tp,
	}
	if err := store.CreateRun(run); err != nil {
		return err
	}

	log.Info().
		Uint("run", run.ID).
		Float64("gm", coeffs.GM).
		Float64("hs", sea.Hs).
		Msg("starting batch run")
	start := time.Now()

	res, err := orch.Run(context.Background(), duration, sampleSec, func(snap sim.Snapshot) error {
		return store.AppendSample(run.ID, snap)
	})
	if err != nil {
		return err
	}
	if err := store.FinishRun(run.ID, res); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %d\n", run.ID)
	fmt.Printf("steps: %d  samples: %d\n", res.Steps, res.Samples)
	fmt.Printf("max heave: %.3f m\n", res.MaxHeave)
	fmt.Printf("max roll:  %.2f deg\n", res.MaxRollDeg)
	fmt.Printf("max pitch: %.4f rad\n", res.MaxPitch)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	state, err := buildState(app)
	if err != nil {
		return err
	}
	field, _, err := buildField(app)
	if err != nil {
		return err
	}
	orch, err := sim.New(state, field, simConfig(app))
	if err != nil {
		return err
	}
	return viz.Run(orch, frameRate, app.SeaPreset, app.Seed)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	log := newLogger(app)

	handler := server.New(nil, simConfig(app), log)
	log.Info().Str("addr", app.ListenAddr).Msg("listening")
	return http.ListenAndServe(app.ListenAddr, handler)
}

func plotGZ(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}

	state, err := buildState(app)
	if err != nil {
		return err
	}
	curve, err := hydro.ComputeCurve(state)
	if err != nil {
		return err
	}

	data := make([]float64, len(curve.Points))
	for i, p := range curve.Points {
		data[i] = p.GZ
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("GZ (m) vs heel angle (deg)"),
	))
	fmt.Println()
	fmt.Printf("GM:        %.3f m\n", curve.GM)
	fmt.Printf("max GZ:    %.3f m at %.0f deg\n", curve.MaxGZ, curve.MaxGZAngleDeg)
	fmt.Printf("vanishing: %.0f deg\n", curve.VanishingAngle)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHIP\tL\tB\tT\tDISPLACEMENT\tTANKS")
	for _, name := range config.ListShipPresets() {
		p := config.GetShipPreset(name)
		fmt.Fprintf(w, "%s\t%.0fm\t%.0fm\t%.1fm\t%.0ft\t%d\n",
			name, p.Hull.Length, p.Hull.Beam, p.Hull.Draft, p.Hull.BaselineDisplacement, len(p.Tanks))
	}
	fmt.Fprintln(w, "\nSEA\tHS\tTP\tCOMPONENTS")
	for _, name := range config.ListSeaPresets() {
		p := config.GetSeaPreset(name)
		fmt.Fprintf(w, "%s\t%.1fm\t%.1fs\t%d\n", name, p.Hs, p.Tp, p.Components)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(app, newLogger(app))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tLABEL\tSHIP\tSEA\tGM\tDURATION\tMAX ROLL")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2fm\t%.0fs\t%.1f°\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Label,
			run.ShipPreset,
			run.SeaPreset,
			run.GM,
			run.Duration,
			run.MaxRollDeg,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("run id must be an integer: %s", args[0])
	}

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(app, newLogger(app))
	if err != nil {
		return err
	}
	defer store.Close()

	return store.ExportJSON(os.Stdout, uint(id))
}
