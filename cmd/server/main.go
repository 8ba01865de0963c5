// Command server runs the API process: the authenticated HTTP surface plus
// the metrics endpoint. Workers run separately (cmd/worker).
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/adapters/postgres"
	"github.com/kevin07696/payment-gateway/internal/adapters/redisqueue"
	"github.com/kevin07696/payment-gateway/internal/config"
	"github.com/kevin07696/payment-gateway/internal/handlers"
	"github.com/kevin07696/payment-gateway/internal/services/merchant"
	"github.com/kevin07696/payment-gateway/internal/services/order"
	"github.com/kevin07696/payment-gateway/internal/services/payment"
	"github.com/kevin07696/payment-gateway/internal/services/refund"
	"github.com/kevin07696/payment-gateway/pkg/observability"
)

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

	router := handlers.NewRouter(handlers.Deps{
		Store:    store,
		Queue:    queue,
		Orders:   order.NewService(store, logger),
		Payments: payment.NewService(store, queue, logger),
		Refunds:  refund.NewService(store, queue, logger),
		Merchant: merchant.NewService(store, queue, logger),
		Metrics:  metrics,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
