package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/waylon/internal/config"
	"github.com/rileyhilliard/waylon/internal/dashboard"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/logger"
	"github.com/rileyhilliard/waylon/internal/metrics"
	"github.com/rileyhilliard/waylon/internal/scheduler"
	"github.com/rileyhilliard/waylon/internal/source"
	"github.com/rileyhilliard/waylon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var radiatorHeadless bool

// radiatorCmd runs the full-screen dashboard (also the root command's default)
var radiatorCmd = &cobra.Command{
	Use:   "radiator",
	Short: "Show the build radiator for a view",
	Long: `Poll the status source and show every job in the view, worst first.

The job list is rediscovered every rebuild_interval seconds and each job's
status is re-fetched every refresh_interval seconds. When stdout is not a
terminal, or with --headless, a summary is logged after every update instead.

Keys:
  r  refresh now     R  rebuild now
  ?  help            q  quit

Examples:
  waylon radiator
  waylon radiator --view nightly
  waylon radiator --headless > radiator.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return radiatorCommand(cmd.Context(), RadiatorOptions{Headless: radiatorHeadless})
	},
}

func init() {
	radiatorCmd.Flags().BoolVar(&radiatorHeadless, "headless", false, "log updates instead of drawing the dashboard")
	rootCmd.AddCommand(radiatorCmd)
}

// RadiatorOptions holds options for the radiator command.
type RadiatorOptions struct {
	Headless bool // Log summaries instead of running the TUI
}

// radiatorCommand wires config, logging, the status source, the poller and
// a renderer, then runs until ctx ends or the user quits.
func radiatorCommand(ctx context.Context, opts RadiatorOptions) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	headless := opts.Headless || !term.IsTerminal(int(os.Stdout.Fd()))

	logOpts := cfg.LoggerOptions()
	if headless {
		// No TUI owns the terminal, so logs are the output.
		logOpts.File = ""
		logOpts.Writer = os.Stderr
	}
	log, closer := logger.New(logOpts)
	defer closer.Close()
	logger.SetDefault(log)

	if path != "" {
		log.Debug("Loaded config from %s", path)
	}
	for _, w := range config.Warnings(cfg) {
		log.Warn("%s", w)
		if !headless {
			// The log file is out of sight while the dashboard runs.
			ui.PrintWarning(w)
		}
	}

	src, err := source.NewClient(cfg.URL, source.Options{
		Timeout: cfg.FetchTimeout,
		Logger:  logger.Named(log, "source"),
	})
	if err != nil {
		return err
	}

	if headless {
		return runHeadless(ctx, cfg, src, log)
	}
	return runDashboard(ctx, cfg, src, log)
}

func newPoller(cfg *config.Config, src source.Source, renderer scheduler.Renderer, log logger.Logger) (*scheduler.Poller, error) {
	return scheduler.New(scheduler.Config{
		View:            cfg.View,
		RebuildInterval: cfg.RebuildEvery(),
		RefreshInterval: cfg.RefreshEvery(),
	}, src, scheduler.Options{
		Renderer: renderer,
		Logger:   logger.Named(log, "scheduler"),
	})
}

// runHeadless polls until ctx ends, logging every settle point.
func runHeadless(ctx context.Context, cfg *config.Config, src source.Source, log logger.Logger) error {
	poller, err := newPoller(cfg, src, dashboard.NewLogRenderer(logger.Named(log, "radiator")), log)
	if err != nil {
		return err
	}

	log.Info("Watching view %s on %s", cfg.View, cfg.URL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })
	serveMetrics(gctx, g, cfg.MetricsAddr, log)
	return g.Wait()
}

// runDashboard runs the poller behind the bubbletea dashboard. Quitting the
// dashboard stops the poller and the metrics listener.
func runDashboard(ctx context.Context, cfg *config.Config, src source.Source, log logger.Logger) error {
	renderer := dashboard.NewProgramRenderer()
	poller, err := newPoller(cfg, src, renderer, log)
	if err != nil {
		return err
	}

	program := tea.NewProgram(dashboard.NewModel(cfg.View, poller), tea.WithAltScreen())
	renderer.Attach(program)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })
	serveMetrics(gctx, g, cfg.MetricsAddr, log)
	g.Go(func() error {
		defer cancel()
		go func() {
			<-gctx.Done()
			program.Quit()
		}()
		if _, err := program.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Dashboard stopped unexpectedly",
				"Try --headless if this terminal can't run full-screen programs.")
		}
		return nil
	})
	return g.Wait()
}

// serveMetrics starts the metrics listener when addr enables it and ties
// its failure to the group.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, log logger.Logger) {
	_, errCh := metrics.StartServer(ctx, addr, logger.Named(log, "metrics"))
	if errCh == nil {
		return
	}
	g.Go(func() error {
		if err := <-errCh; err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Metrics listener failed on "+addr,
				"Pick a free address for metrics_addr, or set it to off.")
		}
		return nil
	})
}
