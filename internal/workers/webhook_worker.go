package workers

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/services/webhook"
)

// WebhookWorker adapts the deliverer to the runner. Delivery failures are
// the deliverer's business: it schedules its own retries. Only a store error
// that left the attempt unrecorded propagates, so the queue re-runs the job
// instead of losing the event.
type WebhookWorker struct {
	deliverer *webhook.Deliverer
	logger    *zap.Logger
}

// NewWebhookWorker creates a webhook worker.
func NewWebhookWorker(deliverer *webhook.Deliverer, logger *zap.Logger) *WebhookWorker {
	return &WebhookWorker{deliverer: deliverer, logger: logger}
}

// Handle runs one delivery attempt.
func (w *WebhookWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var job domain.WebhookJob
	if err := json.Unmarshal(payload, &job); err != nil {
		w.logger.Error("malformed webhook job", zap.Error(err))
		return nil
	}
	return w.deliverer.Deliver(ctx, job)
}
