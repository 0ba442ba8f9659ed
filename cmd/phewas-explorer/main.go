package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/phewas-explorer/pkg/config"
	"github.com/dd0wney/phewas-explorer/pkg/explorer"
	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/health"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
	"github.com/dd0wney/phewas-explorer/pkg/metrics"
	"github.com/dd0wney/phewas-explorer/pkg/prefs"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
	"github.com/spf13/cobra"
)

// app is everything the subcommands share. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	closer   io.Closer
	metrics  *metrics.Registry
	gateway  *gateway.Client
	prefs    *prefs.Store
	explorer *explorer.Explorer
	server   *http.Server
}

type flags struct {
	configFile  string
	apiURL      string
	logLevel    string
	logFormat   string
	logFile     string
	metricsAddr string
	coloring    string
	strict      bool
}

func buildRootCmd() *cobra.Command {
	var f flags
	a := &app{}

	cmd := &cobra.Command{
		Use:          "phewas-explorer",
		Short:        "Explore HLA PheWAS associations as an expandable graph",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return a.start(cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.stop()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}

	cmd.AddCommand(newTUICmd(a), newDumpCmd(a), newExportCmd(a))

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file (YAML)")
	pf.StringVar(&f.apiURL, "api-url", "", "backend base URL (default: from config)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: json or text")
	pf.StringVar(&f.logFile, "log-file", "", "write JSON logs to this file")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")
	pf.StringVar(&f.coloring, "coloring", "", "allele coloring: simple or risk")
	pf.BoolVar(&f.strict, "strict", false, "fail on references to nodes missing from the graph")

	return cmd
}

// loadConfig layers file, environment and the flags that were set.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("coloring") {
		cfg.AlleleColoring = f.coloring
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) start(cfg *config.Config) error {
	a.cfg = cfg

	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logger, closer, err := logging.NewFileLogger(cfg.LogFile, logging.ParseLevel(cfg.LogLevel), format)
	if err != nil {
		return err
	}
	a.logger, a.closer = logger, closer
	a.metrics = metrics.NewRegistry()

	a.gateway, err = gateway.New(gateway.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return err
	}

	a.prefs, err = prefs.Open(cfg.PrefsPath)
	if err != nil {
		// Fall back to in-memory defaults.
		logger.Warn("preferences unreadable, using defaults", logging.Error(err))
		a.prefs, _ = prefs.Open("")
	}

	mode, err := visualization.ParseColoringMode(cfg.AlleleColoring)
	if err != nil {
		return err
	}
	a.explorer, err = explorer.New(explorer.Deps{
		Gateway: a.gateway,
		Layout:  visualization.NewEngine(cfg.LayoutConfig(), visualization.NewEncoder(mode)),
		Prefs:   a.prefs,
		Logger:  logger,
		Metrics: a.metrics,
		Strict:  cfg.Strict,
	})
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}
	logger.Info("explorer started",
		logging.String("api_url", cfg.APIURL),
		logging.Bool("show_subtypes", a.prefs.ShowSubtypes()))
	return nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())

	hc := health.NewChecker(health.DefaultTimeout)
	hc.RegisterLivenessCheck("process", health.AliveCheck)
	hc.RegisterReadinessCheck("backend", health.BackendCheck(func(ctx context.Context) error {
		_, err := a.gateway.GraphData(ctx, gateway.GraphQuery{Type: gateway.TypeCategories})
		return err
	}, time.Second))
	mux.Handle("/livez", hc.LivenessHandler())
	mux.Handle("/readyz", hc.ReadinessHandler())
	a.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics listener failed", logging.String("addr", addr), logging.Error(err))
		}
	}()
	a.logger.Info("serving metrics", logging.String("addr", addr))
}

func (a *app) stop() error {
	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.closer != nil {
		errs = append(errs, a.closer.Close())
	}
	return errors.Join(errs...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
