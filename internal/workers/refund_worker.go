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

// RefundWorker simulates processing of pending refunds and fans out the
// refund.processed webhook.
type RefundWorker struct {
	store  ports.Store
	queue  ports.Queue
	sim    Simulator
	logger *zap.Logger
}

// NewRefundWorker creates a refund worker.
func NewRefundWorker(store ports.Store, queue ports.Queue, sim Simulator, logger *zap.Logger) *RefundWorker {
	return &RefundWorker{store: store, queue: queue, sim: sim, logger: logger}
}

// Handle processes one refund job. Refunds always succeed once their parent
// payment is successful; re-runs of a processed refund are no-ops.
func (w *RefundWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job domain.RefundJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.logger.Error("malformed refund job", zap.Error(err))
		return nil
	}

	r, payment, merchant, err := w.store.GetRefundForProcessing(ctx, job.RefundID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			w.logger.Warn("refund job references missing refund", zap.String("refund_id", job.RefundID))
			return nil
		}
		return err
	}
	if r.Status == domain.RefundStatusProcessed {
		w.logger.Info("refund already processed, skipping", zap.String("refund_id", r.ID))
		return nil
	}
	// Creation rejects refunds of non-successful payments, so this only
	// trips on data older than that check.
	if payment.Status != domain.PaymentStatusSuccess {
		w.logger.Warn("refund parent payment not successful, skipping",
			zap.String("refund_id", r.ID),
			zap.String("payment_status", string(payment.Status)),
		)
		return nil
	}

	if err := sleep(ctx, w.sim.RefundDelay()); err != nil {
		return err
	}

	updated, err := w.store.MarkRefundProcessed(ctx, r.ID, time.Now())
	if err != nil {
		return err
	}

	w.logger.Info("refund processed",
		zap.String("refund_id", updated.ID),
		zap.String("payment_id", updated.PaymentID),
		zap.Int64("amount", updated.Amount),
	)

	if merchant.HasWebhook() {
		data, err := webhook.RefundEventData(updated)
		if err != nil {
			return err
		}
		fanOutWebhook(ctx, w.queue, w.logger, domain.WebhookJob{
			MerchantID: merchant.ID,
			Event:      domain.EventRefundProcessed,
			Data:       data,
		})
	}
	return nil
}
