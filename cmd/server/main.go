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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"carelock/internal/care/handler"
	"carelock/internal/care/intake"
	"carelock/internal/care/ledger"
	caremetrics "carelock/internal/care/metrics"
	"carelock/internal/care/roster"
	"carelock/internal/care/visibility"
	"carelock/internal/platform/config"
	"carelock/internal/platform/httpserver"
	"carelock/internal/platform/logger"
	"carelock/internal/platform/metrics"
	"carelock/internal/platform/middleware"
	"carelock/pkg/platform/httputil"
	metadata "carelock/pkg/platform/middleware/metadata"
	"carelock/pkg/platform/middleware/requesttime"
)

// main wires config, storage, audit and the care services behind the HTTP
// router, then runs until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, health, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	auditPublisher, closeAudit, err := openAudit(cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	careMetrics := caremetrics.New()
	rost := roster.New(st,
		roster.WithLogger(log),
		roster.WithMetrics(careMetrics),
		roster.WithAuditPublisher(auditPublisher),
	)
	if cfg.SeedOnStart {
		seeded, err := rost.EnsureSeeded(ctx)
		if err != nil {
			return err
		}
		if seeded {
			log.InfoContext(ctx, "seeded demonstration records")
		}
	}

	h := handler.New(
		ledger.New(st, ledger.WithLogger(log), ledger.WithMetrics(careMetrics), ledger.WithAuditPublisher(auditPublisher)),
		intake.New(st, intake.WithLogger(log), intake.WithMetrics(careMetrics), intake.WithAuditPublisher(auditPublisher)),
		visibility.New(st, visibility.WithLogger(log), visibility.WithMetrics(careMetrics), visibility.WithAuditPublisher(auditPublisher)),
		rost,
		log,
	)

	srv := httpserver.New(cfg.Addr, newRouter(cfg, log, h, health, metrics.New()), cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting carelock", "addr", cfg.Addr, "store", cfg.Store, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(cfg config.Config, log *slog.Logger, h *handler.Handler, health healthFunc, httpMetrics *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.LatencyMiddleware(httpMetrics))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := health(ctx); err != nil {
			log.WarnContext(ctx, "record store unhealthy", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)
		h.Register(r)
	})
	return r
}
