package refund

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/identifier"
)

// Service owns refund creation and lookup.
type Service struct {
	store  ports.Store
	queue  ports.Queue
	logger *zap.Logger
}

// NewService creates a refund service.
func NewService(store ports.Store, queue ports.Queue, logger *zap.Logger) *Service {
	return &Service{store: store, queue: queue, logger: logger}
}

// CreateRequest carries the refund-creation inputs.
type CreateRequest struct {
	Amount int64
	Reason string
}

// Create validates the request, inserts the refund under the available-amount
// lock, and enqueues the processing job.
func (s *Service) Create(ctx context.Context, merchantID uuid.UUID, paymentID string, req CreateRequest) (*domain.Refund, error) {
	if req.Amount < 1 {
		return nil, domain.NewBadRequest("amount must be at least 1")
	}

	id, err := identifier.NewRefundID()
	if err != nil {
		return nil, domain.WrapInternal(err)
	}

	r := &domain.Refund{
		ID:         id,
		MerchantID: merchantID,
		PaymentID:  paymentID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		Status:     domain.RefundStatusPending,
	}
	if err := s.store.CreateRefund(ctx, r); err != nil {
		return nil, err
	}

	// An enqueue failure leaves the row pending with no job; the
	// reconciliation sweeper re-enqueues it.
	if err := s.queue.Enqueue(ctx, ports.QueueRefundProcessing, domain.RefundJob{RefundID: r.ID}, 0); err != nil {
		s.logger.Error("failed to enqueue refund job",
			zap.String("refund_id", r.ID),
			zap.Error(err),
		)
		return nil, domain.WrapInternal(err)
	}

	s.logger.Info("refund created",
		zap.String("refund_id", r.ID),
		zap.String("payment_id", paymentID),
		zap.Int64("amount", r.Amount),
	)

	// Re-read so DB-assigned timestamps are on the response.
	return s.store.GetRefund(ctx, merchantID, r.ID)
}

// Get loads a refund in the merchant's scope.
func (s *Service) Get(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Refund, error) {
	return s.store.GetRefund(ctx, merchantID, id)
}

// List returns a page of the merchant's refunds plus the total in scope.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Refund, int64, error) {
	return s.store.ListRefunds(ctx, merchantID, limit, offset)
}
