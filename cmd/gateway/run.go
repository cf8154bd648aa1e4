package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/dnscache"
	"golang.org/x/sync/errgroup"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/config"
	"github.com/eugener/gandalf/internal/forwarder"
	"github.com/eugener/gandalf/internal/router"
	"github.com/eugener/gandalf/internal/server"
	"github.com/eugener/gandalf/internal/strategy"
	"github.com/eugener/gandalf/internal/telemetry"
	"github.com/eugener/gandalf/internal/tracker"
	"go.opentelemetry.io/otel/trace"
)

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.SetDefault(buildLogger(cfg.Logging))
	slog.Info("starting gateway", "version", version, "addr", cfg.Server.Addr)

	strategies := applyOverrides(strategy.Defaults(), cfg.Overrides)

	prov, err := router.New(strategies, router.CacheOptions{
		Enabled: cfg.RouteCache.Enabled,
		MaxSize: cfg.RouteCache.MaxSize,
		TTL:     cfg.RouteCache.TTL,
	})
	if err != nil {
		return err
	}
	slog.Info("provider router ready", "providers", len(prov.Names()), "route_cache", cfg.RouteCache.Enabled)

	var metrics *telemetry.Metrics
	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics.Enabled {
		promRegistry := prometheus.NewRegistry()
		promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promRegistry.MustRegister(collectors.NewGoCollector())
		metrics = telemetry.NewMetrics(promRegistry)
		metricsHandler = promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
		prov.SetMetrics(metrics)
		slog.Info("prometheus metrics enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var wg errgroup.Group

	dnsResolver := &dnscache.Resolver{}
	wg.Go(func() error {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				dnsResolver.Refresh(true)
			}
		}
	})

	transport := forwarder.NewTransport(dnsResolver)
	client := forwarder.NewClient(transport)

	sink := tracker.NewLogSink(slog.Default())
	wg.Go(func() error {
		return sink.Run(ctx)
	})

	var tracer trace.Tracer
	var tracingShutdown func(context.Context) error
	if cfg.Telemetry.Tracing.Enabled {
		endpoint := cfg.Telemetry.Tracing.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		sampleRate := cfg.Telemetry.Tracing.SampleRate
		if sampleRate == 0 {
			sampleRate = 0.1
		}
		shutdown, err := telemetry.SetupTracing(ctx, endpoint, sampleRate)
		if err != nil {
			slog.Warn("tracing setup failed, continuing without tracing", "error", err)
		} else {
			tracingShutdown = shutdown
			tracer = telemetry.Tracer("gateway/server")
			slog.Info("opentelemetry tracing enabled", "endpoint", endpoint, "sample_rate", sampleRate)
		}
	}

	handler := server.New(server.Deps{
		Router:         prov,
		Client:         client,
		Sink:           sink,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		Tracer:         tracer,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	wg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	slog.Info("gateway ready", "addr", cfg.Server.Addr)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if tracingShutdown != nil {
		if err := tracingShutdown(shutdownCtx); err != nil {
			slog.Error("tracing shutdown error", "error", err)
		}
	}

	if err := wg.Wait(); err != nil {
		return err
	}

	slog.Info("gateway stopped")
	return nil
}

// buildLogger constructs the process-wide JSON logger. Source locations are
// attached at debug level only, since they are the expensive attribute.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	return slog.New(handler)
}

// applyOverrides wraps any strategy named in overrides with strategy.Override,
// substituting its host and/or prefix. Strategies with no matching override
// pass through unchanged.
func applyOverrides(strategies []gateway.ProviderStrategy, overrides []config.ProviderOverride) []gateway.ProviderStrategy {
	if len(overrides) == 0 {
		return strategies
	}
	byName := make(map[string]config.ProviderOverride, len(overrides))
	for _, o := range overrides {
		byName[o.Name] = o
	}

	out := make([]gateway.ProviderStrategy, len(strategies))
	for i, s := range strategies {
		if o, ok := byName[s.Name()]; ok {
			out[i] = strategy.NewOverride(s, o.Host, o.Prefix)
			slog.Info("provider override applied", "name", s.Name(), "host", o.Host, "prefix", o.Prefix)
			continue
		}
		out[i] = s
	}
	return out
}
