// Package workers holds the queue consumers: payment and refund processing,
// webhook delivery, and the reconciliation sweeper.
package workers

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/services/webhook"
)

// PaymentWorker simulates processing of pending payments and fans out the
// terminal-state webhook.
type PaymentWorker struct {
	store  ports.Store
	queue  ports.Queue
	sim    Simulator
	logger *zap.Logger
}

// NewPaymentWorker creates a payment worker.
func NewPaymentWorker(store ports.Store, queue ports.Queue, sim Simulator, logger *zap.Logger) *PaymentWorker {
	return &PaymentWorker{store: store, queue: queue, sim: sim, logger: logger}
}

// Handle processes one payment job. Re-runs of an already-terminal payment
// are no-ops, which makes queue-level retries safe.
func (w *PaymentWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job domain.PaymentJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.logger.Error("malformed payment job", zap.Error(err))
		// Retrying cannot fix a bad payload.
		return nil
	}

	p, merchant, err := w.store.GetPaymentForProcessing(ctx, job.PaymentID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			w.logger.Warn("payment job references missing payment", zap.String("payment_id", job.PaymentID))
			return nil
		}
		return err
	}
	if p.IsTerminal() {
		w.logger.Info("payment already terminal, skipping",
			zap.String("payment_id", p.ID),
			zap.String("status", string(p.Status)),
		)
		return nil
	}

	if err := sleep(ctx, w.sim.PaymentDelay()); err != nil {
		return err
	}

	status := domain.PaymentStatusFailed
	errCode, errDesc := domain.ErrCodePaymentFailed, domain.ErrDescPaymentFailed
	if w.sim.PaymentSucceeds(p.Method) {
		status = domain.PaymentStatusSuccess
		errCode, errDesc = "", ""
	}

	updated, err := w.store.MarkPaymentTerminal(ctx, p.ID, status, errCode, errDesc)
	if err != nil {
		return err
	}

	w.logger.Info("payment processed",
		zap.String("payment_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("method", string(updated.Method)),
	)

	if merchant.HasWebhook() {
		data, err := webhook.PaymentEventData(updated)
		if err != nil {
			return err
		}
		fanOutWebhook(ctx, w.queue, w.logger, domain.WebhookJob{
			MerchantID: merchant.ID,
			Event:      webhook.EventForPayment(updated),
			Data:       data,
		})
	}
	return nil
}

// fanOutWebhook enqueues a delivery job. The payment or refund outcome is
// already committed at this point, so an enqueue failure only loses the
// notification; it is logged, not propagated.
func fanOutWebhook(ctx context.Context, queue ports.Queue, logger *zap.Logger, job domain.WebhookJob) {
	if err := queue.Enqueue(ctx, ports.QueueWebhookDelivery, job, 0); err != nil {
		logger.Error("failed to enqueue webhook delivery",
			zap.String("merchant_id", job.MerchantID.String()),
			zap.String("event", job.Event),
			zap.Error(err),
		)
	}
}

// sleep waits for d or until the context ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
