package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// Store is the transactional persistence surface. Implementations own their
// transactions; multi-step operations documented here run atomically.
//
// Every merchant-scoped read takes the calling merchant's id and must treat
// a foreign merchant's object as not found.
type Store interface {
	// Merchants.
	CreateMerchant(ctx context.Context, m *domain.Merchant) error
	GetMerchantByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	GetMerchantByCredentials(ctx context.Context, apiKey, apiSecret string) (*domain.Merchant, error)
	UpdateMerchantWebhookURL(ctx context.Context, id uuid.UUID, url string) error
	UpdateMerchantWebhookSecret(ctx context.Context, id uuid.UUID, secret string) error

	// Orders.
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Order, int64, error)

	// CreatePaymentWithIdempotency runs the payment-creation transaction:
	// read the idempotency row (deleting it when expired), read-lock the
	// order, copy its amount and currency onto p, insert p as pending. When
	// a live idempotency record exists the cached response is returned and
	// nothing is written.
	CreatePaymentWithIdempotency(ctx context.Context, p *domain.Payment, idempotencyKey string) (cached json.RawMessage, err error)
	GetPayment(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Payment, int64, error)
	// GetPaymentForProcessing loads a payment joined with its merchant,
	// unscoped. Worker-only.
	GetPaymentForProcessing(ctx context.Context, id string) (*domain.Payment, *domain.Merchant, error)
	// MarkPaymentTerminal moves a pending payment to success or failed.
	// Writing a terminal state twice is a no-op; the stored row wins.
	MarkPaymentTerminal(ctx context.Context, id string, status domain.PaymentStatus, errorCode, errorDescription string) (*domain.Payment, error)
	SetPaymentCaptured(ctx context.Context, merchantID uuid.UUID, id string) error
	// ListStuckPendingPayments finds pending payments created before the
	// cutoff, for the reconciliation sweeper.
	ListStuckPendingPayments(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Payment, error)

	// CreateRefund inserts a refund after checking the available amount
	// under a FOR UPDATE lock on the parent payment, all in one
	// transaction. Over-refunds and refunds of non-success payments fail
	// validation.
	CreateRefund(ctx context.Context, r *domain.Refund) error
	GetRefund(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Refund, error)
	ListRefunds(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Refund, int64, error)
	// GetRefundForProcessing loads refund, parent payment, and merchant,
	// unscoped. Worker-only.
	GetRefundForProcessing(ctx context.Context, id string) (*domain.Refund, *domain.Payment, *domain.Merchant, error)
	MarkRefundProcessed(ctx context.Context, id string, at time.Time) (*domain.Refund, error)
	// ListStuckPendingRefunds finds pending refunds created before the
	// cutoff, for the reconciliation sweeper.
	ListStuckPendingRefunds(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Refund, error)

	// Webhook logs.
	CreateWebhookLog(ctx context.Context, w *domain.WebhookLog) error
	GetWebhookLog(ctx context.Context, merchantID, id uuid.UUID) (*domain.WebhookLog, error)
	UpdateWebhookLog(ctx context.Context, w *domain.WebhookLog) error
	ListWebhookLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.WebhookLog, int64, error)
	// ListOverdueWebhookLogs finds pending logs whose next_retry_at elapsed
	// before the cutoff, for crash recovery.
	ListOverdueWebhookLogs(ctx context.Context, cutoff time.Time, limit int) ([]*domain.WebhookLog, error)

	// PutIdempotency inserts the cached response for (key, merchant). On a
	// conflicting concurrent insert the other party won: the stored
	// response is returned unchanged.
	PutIdempotency(ctx context.Context, rec *domain.IdempotencyRecord) (json.RawMessage, error)
	DeleteIdempotency(ctx context.Context, merchantID uuid.UUID, key string) error

	// Ping verifies connectivity for the health endpoint.
	Ping(ctx context.Context) error
}
