package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/kirillkom/resume-ranker/internal/adapters/nats"
	"github.com/kirillkom/resume-ranker/internal/bootstrap"
	"github.com/kirillkom/resume-ranker/internal/config"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/queue/nats"
	"github.com/kirillkom/resume-ranker/internal/observability/logging"
	"github.com/kirillkom/resume-ranker/internal/observability/metrics"
)

const serviceName = "resume-ranker-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	queue, err := nats.NewWithOptions(cfg.NATSURL, nats.Options{
		Service:            serviceName,
		ResilienceExecutor: app.Executor,
		Observer:           workerMetrics,
		Logger:             logger,
	})
	if err != nil {
		log.Fatalf("nats error: %v", err)
	}
	defer queue.Close()

	responder := natsadapter.NewResponder(app.Ranker, app.Comparer, workerMetrics)
	err = queue.Serve(ctx, cfg.NATSQueueGroup, map[string]nats.Handler{
		cfg.NATSRankSubject:    responder.HandleRank,
		cfg.NATSCompareSubject: responder.HandleCompare,
	})
	if err != nil {
		logger.Error("worker_serve_failed", "error", err)
		os.Exit(1)
	}
}
