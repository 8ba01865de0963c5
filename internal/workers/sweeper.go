package workers

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/resilience"
)

const sweepBatchSize = 100

// Sweeper is the reconciliation loop: it re-enqueues pending payments and
// refunds whose job was lost (a crash between commit and enqueue, or a
// dead-lettered job) and pending webhook logs whose scheduled retry never
// ran. Handlers are idempotent, so sweeping a job that is merely slow only
// costs a no-op run.
type Sweeper struct {
	store    ports.Store
	queue    ports.Queue
	logger   *zap.Logger
	interval time.Duration
	// stuckAge is how long a row may sit pending before it counts as lost.
	// It must exceed the worst-case processing delay plus queue retries.
	stuckAge time.Duration
	timeouts resilience.TimeoutConfig
}

// NewSweeper creates a sweeper.
func NewSweeper(store ports.Store, queue ports.Queue, logger *zap.Logger, interval, stuckAge time.Duration, timeouts resilience.TimeoutConfig) *Sweeper {
	return &Sweeper{
		store:    store,
		queue:    queue,
		logger:   logger,
		interval: interval,
		stuckAge: stuckAge,
		timeouts: timeouts,
	}
}

// Run sweeps on the configured interval until ctx ends.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper starting",
		zap.Duration("interval", s.interval),
		zap.Duration("stuck_age", s.stuckAge),
	)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := s.timeouts.SweepContext(ctx)
			s.sweep(sweepCtx)
			cancel()
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	s.sweepPayments(ctx)
	s.sweepRefunds(ctx)
	s.sweepWebhookLogs(ctx)
}

func (s *Sweeper) sweepPayments(ctx context.Context) {
	cutoff := time.Now().Add(-s.stuckAge)
	payments, err := s.store.ListStuckPendingPayments(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.logger.Error("sweep: listing stuck payments failed", zap.Error(err))
		return
	}
	for _, p := range payments {
		if err := s.queue.Enqueue(ctx, ports.QueuePaymentProcessing, domain.PaymentJob{PaymentID: p.ID}, 0); err != nil {
			s.logger.Error("sweep: re-enqueue payment failed", zap.String("payment_id", p.ID), zap.Error(err))
			continue
		}
		s.logger.Warn("sweep: re-enqueued stuck payment", zap.String("payment_id", p.ID))
	}
}

func (s *Sweeper) sweepRefunds(ctx context.Context) {
	cutoff := time.Now().Add(-s.stuckAge)
	refunds, err := s.store.ListStuckPendingRefunds(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.logger.Error("sweep: listing stuck refunds failed", zap.Error(err))
		return
	}
	for _, r := range refunds {
		if err := s.queue.Enqueue(ctx, ports.QueueRefundProcessing, domain.RefundJob{RefundID: r.ID}, 0); err != nil {
			s.logger.Error("sweep: re-enqueue refund failed", zap.String("refund_id", r.ID), zap.Error(err))
			continue
		}
		s.logger.Warn("sweep: re-enqueued stuck refund", zap.String("refund_id", r.ID))
	}
}

func (s *Sweeper) sweepWebhookLogs(ctx context.Context) {
	// A grace period past next_retry_at keeps the sweeper from racing the
	// scheduled delivery job.
	cutoff := time.Now().Add(-s.stuckAge)
	logs, err := s.store.ListOverdueWebhookLogs(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.logger.Error("sweep: listing overdue webhook logs failed", zap.Error(err))
		return
	}
	for _, log := range logs {
		var stored domain.WebhookPayload
		if len(log.Payload) > 0 {
			if err := json.Unmarshal(log.Payload, &stored); err != nil {
				s.logger.Error("sweep: undecodable webhook log payload", zap.String("log_id", log.ID.String()), zap.Error(err))
				continue
			}
		}
		logID := log.ID
		job := domain.WebhookJob{
			LogID:      &logID,
			MerchantID: log.MerchantID,
			Event:      log.Event,
			Data:       stored.Data,
		}
		if err := s.queue.Enqueue(ctx, ports.QueueWebhookDelivery, job, 0); err != nil {
			s.logger.Error("sweep: re-enqueue webhook failed", zap.String("log_id", log.ID.String()), zap.Error(err))
			continue
		}
		s.logger.Warn("sweep: re-enqueued overdue webhook", zap.String("log_id", log.ID.String()))
	}
}
