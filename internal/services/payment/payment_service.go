package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/pkg/identifier"
)

// Service owns payment creation, capture, and lookup.
type Service struct {
	store  ports.Store
	queue  ports.Queue
	logger *zap.Logger
}

// NewService creates a payment service.
func NewService(store ports.Store, queue ports.Queue, logger *zap.Logger) *Service {
	return &Service{store: store, queue: queue, logger: logger}
}

// CreateRequest carries the payment-creation inputs. Card fields are used
// to derive last4 and network, then discarded; the PAN is never persisted.
type CreateRequest struct {
	OrderID        string
	Method         string
	VPA            string
	CardNumber     string
	CardExpiry     string
	CardCVV        string
	IdempotencyKey string
}

// Response is the payment's wire shape. Create returns its serialized bytes
// so idempotent retries can replay a byte-identical body.
type Response struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Method           string `json:"method"`
	VPA              string `json:"vpa,omitempty"`
	CardLast4        string `json:"card_last4,omitempty"`
	CardNetwork      string `json:"card_network,omitempty"`
	Status           string `json:"status"`
	Captured         bool   `json:"captured"`
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	CreatedAt        int64  `json:"created_at"`
}

// ToResponse maps a payment row to its wire shape.
func ToResponse(p *domain.Payment) Response {
	return Response{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           string(p.Method),
		VPA:              p.VPA,
		CardLast4:        p.CardLast4,
		CardNetwork:      string(p.CardNetwork),
		Status:           string(p.Status),
		Captured:         p.Captured,
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
		CreatedAt:        p.CreatedAt.Unix(),
	}
}

// Create validates the request, inserts the payment under the idempotency
// transaction, enqueues the processing job, and caches the response body
// under the idempotency key. The returned bytes are the exact 201 body.
func (s *Service) Create(ctx context.Context, merchantID uuid.UUID, req CreateRequest) (json.RawMessage, error) {
	p, err := s.buildPayment(merchantID, req)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.CreatePaymentWithIdempotency(ctx, p, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		s.logger.Info("returning cached response for idempotency key",
			zap.String("merchant_id", merchantID.String()),
			zap.String("order_id", req.OrderID),
		)
		return cached, nil
	}

	// Re-read for DB-assigned timestamps.
	created, err := s.store.GetPayment(ctx, merchantID, p.ID)
	if err != nil {
		return nil, err
	}

	// An enqueue failure leaves the row pending with no job; the
	// reconciliation sweeper re-enqueues it.
	if err := s.queue.Enqueue(ctx, ports.QueuePaymentProcessing, domain.PaymentJob{PaymentID: p.ID}, 0); err != nil {
		s.logger.Error("failed to enqueue payment job",
			zap.String("payment_id", p.ID),
			zap.Error(err),
		)
		return nil, domain.WrapInternal(err)
	}

	body, err := json.Marshal(ToResponse(created))
	if err != nil {
		return nil, domain.WrapInternal(err)
	}

	if req.IdempotencyKey != "" {
		winner, err := s.store.PutIdempotency(ctx, &domain.IdempotencyRecord{
			Key:        req.IdempotencyKey,
			MerchantID: merchantID,
			Response:   body,
			ExpiresAt:  time.Now().Add(domain.IdempotencyTTL),
		})
		if err != nil {
			s.logger.Error("failed to persist idempotency record",
				zap.String("payment_id", p.ID),
				zap.Error(err),
			)
			return nil, domain.WrapInternal(err)
		}
		// A concurrent insert with the same key won the unique constraint;
		// its body is the canonical one.
		body = winner
	}

	s.logger.Info("payment created",
		zap.String("payment_id", p.ID),
		zap.String("order_id", p.OrderID),
		zap.String("method", string(p.Method)),
	)
	return body, nil
}

func (s *Service) buildPayment(merchantID uuid.UUID, req CreateRequest) (*domain.Payment, error) {
	if req.OrderID == "" {
		return nil, domain.NewBadRequest("order_id is required")
	}

	p := &domain.Payment{
		MerchantID: merchantID,
		OrderID:    req.OrderID,
		Status:     domain.PaymentStatusPending,
	}

	switch domain.PaymentMethod(req.Method) {
	case domain.MethodUPI:
		if req.VPA == "" {
			return nil, domain.NewBadRequest("vpa is required for upi payments")
		}
		p.Method = domain.MethodUPI
		p.VPA = req.VPA
	case domain.MethodCard:
		if req.CardNumber == "" || req.CardExpiry == "" || req.CardCVV == "" {
			return nil, domain.NewBadRequest("card_number, card_expiry and card_cvv are required for card payments")
		}
		p.Method = domain.MethodCard
		p.CardLast4 = domain.Last4(req.CardNumber)
		p.CardNetwork = domain.InferCardNetwork(req.CardNumber)
	default:
		return nil, domain.NewBadRequest("method must be one of: upi, card")
	}

	id, err := identifier.NewPaymentID()
	if err != nil {
		return nil, domain.WrapInternal(err)
	}
	p.ID = id
	return p, nil
}

// Get loads a payment in the merchant's scope.
func (s *Service) Get(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error) {
	return s.store.GetPayment(ctx, merchantID, id)
}

// List returns a page of the merchant's payments plus the total in scope.
func (s *Service) List(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]*domain.Payment, int64, error) {
	return s.store.ListPayments(ctx, merchantID, limit, offset)
}

// Capture marks a successful payment as captured. The request-body amount
// is ignored: capture is always for the full payment amount. Capturing an
// already-captured payment fails validation and leaves the row unchanged.
func (s *Service) Capture(ctx context.Context, merchantID uuid.UUID, id string) (*domain.Payment, error) {
	p, err := s.store.GetPayment(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if !p.CanCapture() {
		if p.Captured {
			return nil, domain.NewBadRequest("payment is already captured")
		}
		return nil, domain.NewBadRequest("only successful payments can be captured")
	}

	if err := s.store.SetPaymentCaptured(ctx, merchantID, id); err != nil {
		return nil, err
	}

	s.logger.Info("payment captured", zap.String("payment_id", id))
	return s.store.GetPayment(ctx, merchantID, id)
}
