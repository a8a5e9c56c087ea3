package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"webhookservice/internal/app/config"
	httpapi "webhookservice/internal/app/http"
	"webhookservice/internal/app/http/handler"
	"webhookservice/internal/domain/article"
	"webhookservice/internal/domain/webhook"
	"webhookservice/internal/infrastructure/async"
	"webhookservice/internal/infrastructure/logging"
	"webhookservice/internal/infrastructure/metrics"
	"webhookservice/internal/infrastructure/tracing"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	reg := metrics.NewRegistry()
	reg.SetSystemInfo(version, time.Now().UTC().Format(time.RFC3339))

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		log.Fatal("tracing init error", zap.Error(err))
	}

	// Pools outlive the signal context so in-flight handlers can drain.
	pool := async.NewWorkerPool(context.Background(), cfg.WorkerPoolSize, log.Named("handlers"))
	reg.SetPoolSize("handlers", cfg.WorkerPoolSize)

	eventBus := async.NewAsyncEventBus(context.Background(), cfg.EventBusPoolSize, log)
	reg.SetPoolSize("events", cfg.EventBusPoolSize)

	articleSvc := article.NewService(eventBus, log)

	builder := webhook.NewBuilder(log)
	if err := article.Register(builder, articleSvc); err != nil {
		log.Fatal("handler registration error", zap.Error(err))
	}
	registry := builder.Build()
	reg.SetRegisteredHandlers(registry.Len())
	for _, k := range registry.Keys() {
		h, _ := registry.Lookup(k)
		log.Info("handler bound",
			zap.Stringer("key", k),
			zap.String("handler", h.Name),
			zap.Stringer("kind", h.Kind),
		)
	}

	var dispatcher webhook.Service = webhook.NewService(registry, pool, log)
	dispatcher = webhook.NewMetricsService(dispatcher, reg)
	dispatcher = webhook.NewTracedService(dispatcher, tp.Tracer())

	gin.SetMode(gin.ReleaseMode)
	h := handler.New(dispatcher, registry, cfg.MaxBodyBytes, log)
	router := httpapi.NewRouter(h, log, httpapi.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Propagator:     tp.Propagator(),
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("webhook service starting",
			zap.String("addr", srv.Addr),
			zap.String("version", version),
			zap.Int("handlers", registry.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Metrics.Enabled {
		metricsSrv := metrics.NewServer(cfg.Metrics, reg, log)
		g.Go(func() error {
			return metricsSrv.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("webhook service shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", zap.Error(err))
	}

	pool.Shutdown()
	eventBus.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", zap.Error(err))
	}
	log.Info("webhook service stopped")
}
