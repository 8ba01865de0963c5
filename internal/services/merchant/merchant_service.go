package merchant

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/services/webhook"
	"github.com/kevin07696/payment-gateway/pkg/identifier"
)

// Service owns the merchant's own profile and webhook configuration.
type Service struct {
	store  ports.Store
	queue  ports.Queue
	logger *zap.Logger
}

// NewService creates a merchant service.
func NewService(store ports.Store, queue ports.Queue, logger *zap.Logger) *Service {
	return &Service{store: store, queue: queue, logger: logger}
}

// Profile loads the calling merchant.
func (s *Service) Profile(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error) {
	return s.store.GetMerchantByID(ctx, merchantID)
}

// UpdateWebhookURL points deliveries at a new endpoint. An empty URL disables
// delivery.
func (s *Service) UpdateWebhookURL(ctx context.Context, merchantID uuid.UUID, url string) (*domain.Merchant, error) {
	if err := s.store.UpdateMerchantWebhookURL(ctx, merchantID, url); err != nil {
		return nil, err
	}
	s.logger.Info("webhook url updated", zap.String("merchant_id", merchantID.String()))
	return s.store.GetMerchantByID(ctx, merchantID)
}

// RegenerateWebhookSecret mints a fresh signing secret. Deliveries in flight
// keep the signature computed when they were posted.
func (s *Service) RegenerateWebhookSecret(ctx context.Context, merchantID uuid.UUID) (string, error) {
	secret, err := identifier.NewWebhookSecret()
	if err != nil {
		return "", domain.WrapInternal(err)
	}
	if err := s.store.UpdateMerchantWebhookSecret(ctx, merchantID, secret); err != nil {
		return "", err
	}
	s.logger.Info("webhook secret regenerated", zap.String("merchant_id", merchantID.String()))
	return secret, nil
}

// SendTestWebhook enqueues a test.webhook delivery so the merchant can verify
// their endpoint and signature handling.
func (s *Service) SendTestWebhook(ctx context.Context, merchantID uuid.UUID) error {
	m, err := s.store.GetMerchantByID(ctx, merchantID)
	if err != nil {
		return err
	}
	if !m.HasWebhook() {
		return domain.NewBadRequest("webhook url is not configured")
	}

	job := domain.WebhookJob{
		MerchantID: merchantID,
		Event:      domain.EventTestWebhook,
		Data:       webhook.TestEventData(),
	}
	if err := s.queue.Enqueue(ctx, ports.QueueWebhookDelivery, job, 0); err != nil {
		return domain.WrapInternal(err)
	}
	s.logger.Info("test webhook enqueued", zap.String("merchant_id", merchantID.String()))
	return nil
}

// ListWebhookLogs returns a page of the merchant's delivery logs plus the
// total in scope.
func (s *Service) ListWebhookLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.WebhookLog, int64, error) {
	return s.store.ListWebhookLogs(ctx, merchantID, limit, offset)
}

// RetryWebhook restarts a delivery from scratch: the attempt counter resets
// and the stored event is enqueued for immediate delivery against the
// existing log.
func (s *Service) RetryWebhook(ctx context.Context, merchantID, logID uuid.UUID) (*domain.WebhookLog, error) {
	log, err := s.store.GetWebhookLog(ctx, merchantID, logID)
	if err != nil {
		return nil, err
	}

	log.Status = domain.WebhookStatusPending
	log.Attempts = 0
	log.NextRetryAt = nil
	if err := s.store.UpdateWebhookLog(ctx, log); err != nil {
		return nil, err
	}

	// The stored payload is the full envelope; deliveries re-stamp the
	// timestamp, so only the data block carries over.
	var stored domain.WebhookPayload
	if len(log.Payload) > 0 {
		if err := json.Unmarshal(log.Payload, &stored); err != nil {
			return nil, domain.WrapInternal(err)
		}
	}

	job := domain.WebhookJob{
		LogID:      &log.ID,
		MerchantID: merchantID,
		Event:      log.Event,
		Data:       stored.Data,
	}
	if err := s.queue.Enqueue(ctx, ports.QueueWebhookDelivery, job, 0); err != nil {
		return nil, domain.WrapInternal(err)
	}

	s.logger.Info("webhook retry enqueued",
		zap.String("merchant_id", merchantID.String()),
		zap.String("log_id", logID.String()),
	)
	return log, nil
}
