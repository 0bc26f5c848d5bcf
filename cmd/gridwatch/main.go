// Command gridwatch renders a grid of random values in the terminal. Each
// cell is its own observer, so clicking a cell redraws only that cell while
// 'r' redraws the whole board.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/odvcencio/furry-grid/config"
	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/metrics"
	"github.com/odvcencio/furry-grid/runtime"
	"github.com/odvcencio/furry-grid/state"
	"github.com/odvcencio/furry-grid/store"
	"github.com/odvcencio/furry-grid/watch"
	"github.com/odvcencio/furry-grid/widgets"
)

var (
	configPath  string
	rowsFlag    int
	colsFlag    int
	seedFlag    uint64
	logLevel    string
	logFile     string
	metricsAddr string
	dispatches  int
	actionsPath string
)

var rootCmd = &cobra.Command{
	Use:          "gridwatch",
	Short:        "Watch a grid of random values redraw cell by cell",
	Long:         "Click a cell to redraw it, press r to redraw every cell, f to force a full refresh and q to quit.",
	SilenceUsage: true,
	RunE:         runWatch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Dispatch actions headlessly and report observer evaluation counts",
	RunE:  runStats,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "gridwatch.yaml", "Path to the YAML config file")
	flags.IntVar(&rowsFlag, "rows", 0, "Grid rows (overrides config)")
	flags.IntVar(&colsFlag, "cols", 0, "Grid columns (overrides config)")
	flags.Uint64Var(&seedFlag, "seed", 0, "Random seed, 0 for a fresh one (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file; logs are discarded when empty")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")

	statsCmd.Flags().IntVar(&dispatches, "dispatches", 100, "Number of SetCell actions to dispatch")
	statsCmd.Flags().StringVar(&actionsPath, "actions", "", "YAML file of tagged actions to dispatch instead of random SetCell actions")
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rowsFlag
	}
	if flags.Changed("cols") {
		cfg.Columns = colsFlag
	}
	if flags.Changed("seed") {
		cfg.Seed = seedFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, func() { _ = f.Close() }, nil
}

func newSource(cfg config.Config) grid.Source {
	if cfg.Seed == 0 {
		return grid.DefaultSource()
	}
	return grid.NewSource(cfg.Seed)
}

// newStore builds the store and, when reg is non-nil, wires its metrics.
func newStore(cfg config.Config, src grid.Source, logger *slog.Logger, reg prometheus.Registerer) (*store.Store, error) {
	initial, err := grid.Random(cfg.Rows, cfg.Columns, src)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{store.WithSource(src), store.WithLogger(logger)}
	if reg != nil {
		collector := metrics.New(reg)
		opts = append(opts,
			store.WithRecorder(collector),
			store.WithManagerOptions(watch.WithRecorder(collector)))
	}
	return store.New(initial, opts...), nil
}

func serveMetrics(ctx context.Context, addr string, g prometheus.Gatherer, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		serveMetrics(ctx, cfg.MetricsAddr, reg, logger)
	}
	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	s, err := newStore(cfg, newSource(cfg), logger, registerer)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	ctrl := &controller{}
	loop := runtime.NewLoop(runtime.Config{
		Store:       s,
		Surface:     tcellSurface{screen: screen},
		Update:      ctrl.update,
		Queue:       state.NewQueue(),
		FlushPolicy: cfg.Policy(),
		TickRate:    cfg.TickRate,
		Logger:      logger,
	})

	width, height := screen.Size()
	status := state.NewComparableSignal(statusText(s))
	board := widgets.NewBoardView(s, widgets.BoardOptions{
		Rows:      height - 1,
		Columns:   width / widgets.DefaultCellWidth,
		Scheduler: loop.StateScheduler(),
		Logger:    logger,
	})
	ctrl.frame = widgets.NewFrame(board, widgets.NewStatusLine(status, loop.InvalidateScheduler()))
	ctrl.frame.Layout(widgets.Rect{Width: width, Height: height})
	loop.SetRoot(ctrl.frame)

	s.Listen(func(_, _ *grid.Grid) {
		status.Set(statusText(s))
	})

	loop.Spawn(pollEvents(screen))
	if cfg.AutoRandomize > 0 {
		loop.Spawn(runtime.Repeat(cfg.AutoRandomize, store.RandomizeAll{}))
	}

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func statusText(s *store.Store) string {
	rows, cols := s.Snapshot().Dimensions()
	stats := s.Watch().Stats()
	return fmt.Sprintf(" v%d  %dx%d  evaluated %d  notified %d  skipped %d | click cell, r randomize, f refresh, q quit",
		s.Version(), rows, cols, stats.Evaluations, stats.Notifications, stats.Skipped)
}

// runStats subscribes an observer to every cell, dispatches one
// RandomizeAll and then either random SetCell actions or a script, and
// prints how many observers each kind of action evaluated.
func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dispatches < 0 {
		return fmt.Errorf("dispatches must be non-negative, got %d", dispatches)
	}
	var script []store.Action
	if actionsPath != "" {
		if script, err = loadActions(actionsPath); err != nil {
			return err
		}
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	src := newSource(cfg)
	reg := prometheus.NewRegistry()
	s, err := newStore(cfg, src, logger, reg)
	if err != nil {
		return err
	}

	notified := 0
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Columns; c++ {
			if _, err := store.SubscribeCell(s, "", grid.Coord{Row: r, Column: c}, func(float64) { notified++ }); err != nil {
				return err
			}
		}
	}

	if err := s.Dispatch(store.RandomizeAll{}); err != nil {
		return err
	}
	rep := statsReport{label: "setcell", afterRandomize: s.Watch().Stats()}

	actions := script
	if actions != nil {
		rep.label = "script"
	} else {
		actions = make([]store.Action, dispatches)
		for i := range actions {
			actions[i] = store.SetCell{
				Row:    int(src.Float64() * float64(cfg.Rows)),
				Column: int(src.Float64() * float64(cfg.Columns)),
			}
		}
	}
	for _, action := range actions {
		err := s.Dispatch(action)
		switch {
		case errors.Is(err, grid.ErrOutOfRange):
			rep.rejected++
		case err != nil:
			return err
		}
	}
	rep.dispatched = len(actions)
	rep.final = s.Watch().Stats()
	rep.notified = notified

	writeStats(cmd.OutOrStdout(), cfg, rep)
	return nil
}

type statsReport struct {
	label          string
	dispatched     int
	rejected       int
	notified       int
	afterRandomize watch.Stats
	final          watch.Stats
}

func writeStats(out io.Writer, cfg config.Config, rep statsReport) {
	evals := rep.final.Evaluations - rep.afterRandomize.Evaluations
	fmt.Fprintf(out, "grid:            %dx%d\n", cfg.Rows, cfg.Columns)
	fmt.Fprintf(out, "subscriptions:   %d\n", cfg.Rows*cfg.Columns)
	fmt.Fprintf(out, "randomize evals: %d\n", rep.afterRandomize.Evaluations)
	fmt.Fprintf(out, "%-16s %d over %d dispatches\n", rep.label+" evals:", evals, rep.dispatched)
	if rep.dispatched > 0 {
		fmt.Fprintf(out, "%-16s %.1f\n", "evals/"+rep.label+":", float64(evals)/float64(rep.dispatched))
	}
	if rep.rejected > 0 {
		fmt.Fprintf(out, "rejected:        %d\n", rep.rejected)
	}
	fmt.Fprintf(out, "notifications:   %d\n", rep.notified)
	fmt.Fprintf(out, "skipped:         %d\n", rep.final.Skipped)
}
