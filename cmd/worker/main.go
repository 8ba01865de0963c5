// Command worker runs the queue consumers: payment processing, refund
// processing, webhook delivery, and the reconciliation sweeper.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/adapters/postgres"
	"github.com/kevin07696/payment-gateway/internal/adapters/redisqueue"
	"github.com/kevin07696/payment-gateway/internal/config"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/services/webhook"
	"github.com/kevin07696/payment-gateway/internal/workers"
	"github.com/kevin07696/payment-gateway/pkg/observability"
	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

// stuckAge is how long a row may sit pending before the sweeper treats its
// job as lost. Worst case normal processing is ~10s plus queue retries.
const stuckAge = 2 * time.Minute

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("parse redis url failed", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	queue := redisqueue.New(redisClient, logger)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	metricsServer := observability.NewMetricsServer(cfg.Server.MetricsPort, registry, logger)
	go metricsServer.Start()

	timeouts := resilience.DefaultTimeoutConfig()
	sim := workers.Simulator{
		TestMode:     cfg.Test.TestMode,
		Delay:        cfg.Test.ProcessingDelay,
		ForceSuccess: cfg.Test.ForcePaymentSuccess,
	}

	paymentWorker := workers.NewPaymentWorker(store, queue, sim, logger)
	refundWorker := workers.NewRefundWorker(store, queue, sim, logger)
	deliverer := webhook.NewDeliverer(store, queue,
		&http.Client{Timeout: timeouts.WebhookDelivery},
		cfg.WebhookSchedule(), logger).WithMetrics(metrics)
	webhookWorker := workers.NewWebhookWorker(deliverer, logger)

	runner := workers.NewRunner(queue, metrics, logger, cfg.Worker.PollInterval, timeouts)
	sweeper := workers.NewSweeper(store, queue, logger, cfg.Worker.SweepInterval, stuckAge, timeouts)

	var wg sync.WaitGroup
	run := func(queueName string, h workers.Handler) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(ctx, queueName, cfg.Worker.Concurrency, h)
		}()
	}
	run(ports.QueuePaymentProcessing, paymentWorker.Handle)
	run(ports.QueueRefundProcessing, refundWorker.Handle)
	run(ports.QueueWebhookDelivery, webhookWorker.Handle)

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	<-ctx.Done()
	logger.Info("shutting down, draining workers")
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
