package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/identifier"
)

// Service owns order creation and lookup.
type Service struct {
	store  ports.Store
	logger *zap.Logger
}

// NewService creates an order service.
func NewService(store ports.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateRequest carries the order-creation inputs.
type CreateRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// Create validates and inserts an order.
func (s *Service) Create(ctx context.Context, merchantID uuid.UUID, req CreateRequest) (*domain.Order, error) {
	if req.Amount < 1 {
		return nil, domain.NewBadRequest("amount must be at least 1")
	}
	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	id, err := identifier.NewOrderID()
	if err != nil {
		return nil, domain.WrapInternal(err)
	}

	o := &domain.Order{
		ID:         id,
		MerchantID: merchantID,
		Amount:     req.Amount,
		Currency:   currency,
		Receipt:    req.Receipt,
		Status:     domain.OrderStatusCreated,
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return nil, domain.WrapInternal(err)
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("merchant_id", merchantID.String()),
		zap.Int64("amount", o.Amount),
	)

	// Re-read so DB-assigned timestamps are on the response.
	return s.store.GetOrder(ctx, merchantID, o.ID)
}

// Get loads an order in the merchant's scope.
func (s *Service) Get(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Order, error) {
	return s.store.GetOrder(ctx, merchantID, id)
}

// List returns a page of the merchant's orders plus the total in scope.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Order, int64, error) {
	return s.store.ListOrders(ctx, merchantID, limit, offset)
}
