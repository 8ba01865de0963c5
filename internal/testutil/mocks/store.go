package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// Store mocks ports.Store.
type Store struct {
	mock.Mock
}

func (m *Store) CreateMerchant(ctx context.Context, mc *domain.Merchant) error {
	args := m.Called(ctx, mc)
	return args.Error(0)
}

func (m *Store) GetMerchantByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Merchant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetMerchantByCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error) {
	args := m.Called(ctx, apiKey, apiSecret)
	if v := args.Get(0); v != nil {
		return v.(*domain.Merchant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) UpdateMerchantWebhookURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *Store) UpdateMerchantWebhookSecret(ctx context.Context, id uuid.UUID, secret string) error {
	args := m.Called(ctx, id, secret)
	return args.Error(0)
}

func (m *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *Store) GetOrder(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Order, error) {
	args := m.Called(ctx, merchantID, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListOrders(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Order, int64, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	var orders []*domain.Order
	if v := args.Get(0); v != nil {
		orders = v.([]*domain.Order)
	}
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *Store) CreatePaymentWithIdempotency(ctx context.Context, p *domain.Payment, idempotencyKey string) (json.RawMessage, error) {
	args := m.Called(ctx, p, idempotencyKey)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetPayment(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error) {
	args := m.Called(ctx, merchantID, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListPayments(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Payment, int64, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	var payments []*domain.Payment
	if v := args.Get(0); v != nil {
		payments = v.([]*domain.Payment)
	}
	return payments, args.Get(1).(int64), args.Error(2)
}

func (m *Store) GetPaymentForProcessing(ctx context.Context, id string) (*domain.Payment, *domain.Merchant, error) {
	args := m.Called(ctx, id)
	var p *domain.Payment
	var mc *domain.Merchant
	if v := args.Get(0); v != nil {
		p = v.(*domain.Payment)
	}
	if v := args.Get(1); v != nil {
		mc = v.(*domain.Merchant)
	}
	return p, mc, args.Error(2)
}

func (m *Store) MarkPaymentTerminal(ctx context.Context, id string, status domain.PaymentStatus, errorCode, errorDescription string) (*domain.Payment, error) {
	args := m.Called(ctx, id, status, errorCode, errorDescription)
	if v := args.Get(0); v != nil {
		return v.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SetPaymentCaptured(ctx context.Context, merchantID uuid.UUID, id string) error {
	args := m.Called(ctx, merchantID, id)
	return args.Error(0)
}

func (m *Store) ListStuckPendingPayments(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Payment, error) {
	args := m.Called(ctx, cutoff, limit)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateRefund(ctx context.Context, r *domain.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *Store) GetRefund(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Refund, error) {
	args := m.Called(ctx, merchantID, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Refund), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListRefunds(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Refund, int64, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	var refunds []*domain.Refund
	if v := args.Get(0); v != nil {
		refunds = v.([]*domain.Refund)
	}
	return refunds, args.Get(1).(int64), args.Error(2)
}

func (m *Store) GetRefundForProcessing(ctx context.Context, id string) (*domain.Refund, *domain.Payment, *domain.Merchant, error) {
	args := m.Called(ctx, id)
	var r *domain.Refund
	var p *domain.Payment
	var mc *domain.Merchant
	if v := args.Get(0); v != nil {
		r = v.(*domain.Refund)
	}
	if v := args.Get(1); v != nil {
		p = v.(*domain.Payment)
	}
	if v := args.Get(2); v != nil {
		mc = v.(*domain.Merchant)
	}
	return r, p, mc, args.Error(3)
}

func (m *Store) MarkRefundProcessed(ctx context.Context, id string, at time.Time) (*domain.Refund, error) {
	args := m.Called(ctx, id, at)
	if v := args.Get(0); v != nil {
		return v.(*domain.Refund), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) ListStuckPendingRefunds(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Refund, error) {
	args := m.Called(ctx, cutoff, limit)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Refund), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateWebhookLog(ctx context.Context, w *domain.WebhookLog) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *Store) GetWebhookLog(ctx context.Context, merchantID, id uuid.UUID) (*domain.WebhookLog, error) {
	args := m.Called(ctx, merchantID, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.WebhookLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) UpdateWebhookLog(ctx context.Context, w *domain.WebhookLog) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *Store) ListWebhookLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.WebhookLog, int64, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	var logs []*domain.WebhookLog
	if v := args.Get(0); v != nil {
		logs = v.([]*domain.WebhookLog)
	}
	return logs, args.Get(1).(int64), args.Error(2)
}

func (m *Store) ListOverdueWebhookLogs(ctx context.Context, cutoff time.Time, limit int) ([]*domain.WebhookLog, error) {
	args := m.Called(ctx, cutoff, limit)
	if v := args.Get(0); v != nil {
		return v.([]*domain.WebhookLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) PutIdempotency(ctx context.Context, rec *domain.IdempotencyRecord) (json.RawMessage, error) {
	args := m.Called(ctx, rec)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) DeleteIdempotency(ctx context.Context, merchantID uuid.UUID, key string) error {
	args := m.Called(ctx, merchantID, key)
	return args.Error(0)
}

func (m *Store) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
