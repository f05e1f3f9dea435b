package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vrischmann/envconfig"

	"github.com/Sh00ty/hotspot-cpr/internal/config"
	"github.com/Sh00ty/hotspot-cpr/internal/cpr"
	"github.com/Sh00ty/hotspot-cpr/internal/explorer"
	"github.com/Sh00ty/hotspot-cpr/internal/hotspot"
	"github.com/Sh00ty/hotspot-cpr/internal/metrics"
	"github.com/Sh00ty/hotspot-cpr/internal/monitor"
)

func loggerLevelFromString(level string) zerolog.Level {
	level = strings.ToLower(level)
	switch level {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

type Config struct {
	NodeName    string `envconfig:"NODE_NAME,default=hotspot-cpr"`
	LoggerLevel string `envconfig:"LOGGER_LEVEL,default=info"`

	SettingsFile string `envconfig:"CPR_SETTINGS_FILE,default=settings.ini"`
	ProbeAddr    string `envconfig:"PROBE_ADDR,default=0.0.0.0:8080"`

	MetricsBackend string `envconfig:"METRICS_BACKEND,default=none"`
	StatsdAddr     string `envconfig:"STATSD_ADDR,optional"`
	StatsdPrefix   string `envconfig:"STATSD_PREFIX,default=apps.cpr."`

	ExplorerURL  string        `envconfig:"EXPLORER_URL,default=https://api.helium.io"`
	ExplorerRate float64       `envconfig:"EXPLORER_RATE,default=2"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT,default=30s"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appCfg := Config{}
	err := envconfig.Init(&appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read app config")
	}
	log.Logger = log.Level(loggerLevelFromString(appCfg.LoggerLevel))

	settings, err := config.Load(appCfg.SettingsFile)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to load hotspot settings from %s", appCfg.SettingsFile)
	}
	log.Info().Msgf("config: %v, hotspots: %d", settings.Policy, len(settings.Devices))

	m, mux, metricsClose := newMetrics(appCfg)
	defer metricsClose()

	statusClient := explorer.NewClient(explorer.Settings{
		BaseURL:           appCfg.ExplorerURL,
		Timeout:           appCfg.HTTPTimeout,
		RequestsPerSecond: appCfg.ExplorerRate,
	})
	controlClient := hotspot.NewClient(hotspot.Settings{Timeout: appCfg.HTTPTimeout}, log.Logger)

	scheduler := cpr.New(
		statusClient,
		controlClient,
		settings.Policy,
		log.Logger,
		cpr.WithMetrics(m),
	)
	poller := monitor.NewPoller(settings.Devices, scheduler, monitor.CheckInterval, m, log.Logger)

	go func() {
		err := poller.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("poller stopped")
		}
	}()

	serverClose := startProbeServer(appCfg.ProbeAddr, mux)
	defer serverClose()

	<-ctx.Done()
	log.Warn().Msg("shutting down, scheduled cpr actions are dropped")
}

// newMetrics returns the configured backend and a func flushing it on shutdown.
func newMetrics(appCfg Config) (metrics.Metrics, *http.ServeMux, func()) {
	mux := http.NewServeMux()
	switch strings.ToLower(appCfg.MetricsBackend) {
	case "statsd":
		if appCfg.StatsdAddr == "" {
			log.Fatal().Msg("STATSD_ADDR is required for statsd metrics")
		}
		s := metrics.NewStatsd(appCfg.NodeName, appCfg.StatsdPrefix, appCfg.StatsdAddr)
		return s, mux, func() {
			err := s.Close()
			if err != nil {
				log.Warn().Err(err).Msg("failed to flush statsd metrics")
			}
		}
	case "prometheus":
		p := metrics.NewPrometheus(appCfg.NodeName)
		mux.Handle("/metrics", p.Handler())
		return p, mux, func() {}
	}
	return metrics.Noop{}, mux, func() {}
}

func startProbeServer(addr string, mux *http.ServeMux) func() {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		w.WriteHeader(http.StatusOK)
	})
	srv := http.Server{
		Handler: mux,
		Addr:    addr,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start http server")
		}
	}()
	return func() {
		_ = srv.Close()
	}
}
