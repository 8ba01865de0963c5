package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus transitions only pending → success or pending → failed.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod is a tagged variant: upi carries a VPA, card carries last4
// and an inferred network. The row stores the discriminator plus nullable
// columns.
type PaymentMethod string

const (
	MethodUPI  PaymentMethod = "upi"
	MethodCard PaymentMethod = "card"
)

// CardNetwork is inferred from the PAN's first digit at creation time. The
// PAN itself is never persisted.
type CardNetwork string

const (
	NetworkVisa       CardNetwork = "visa"
	NetworkMastercard CardNetwork = "mastercard"
	NetworkUnknown    CardNetwork = "unknown"
)

// Payment failure codes written by the payment worker.
const (
	ErrCodePaymentFailed = "PAYMENT_FAILED"
	ErrDescPaymentFailed = "Payment processing failed"
)

// Payment is a single attempt to pay an order. Its amount is copied from the
// order at creation; partial payment is not modeled.
type Payment struct {
	ID               string
	MerchantID       uuid.UUID
	OrderID          string
	Amount           int64
	Currency         string
	Method           PaymentMethod
	VPA              string
	CardLast4        string
	CardNetwork      CardNetwork
	Status           PaymentStatus
	Captured         bool
	ErrorCode        string
	ErrorDescription string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal reports whether the payment has reached success or failed.
// Terminal states never change; queue-level job retries rely on this.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}

// CanCapture reports whether a capture request is legal: the payment must
// have succeeded and not already be captured.
func (p *Payment) CanCapture() bool {
	return p.Status == PaymentStatusSuccess && !p.Captured
}

// CanRefund reports whether refunds may be created against this payment.
func (p *Payment) CanRefund() bool {
	return p.Status == PaymentStatusSuccess
}

// InferCardNetwork tags a PAN by its leading digit: 4 → visa, 5 →
// mastercard, anything else → unknown.
func InferCardNetwork(cardNumber string) CardNetwork {
	switch {
	case strings.HasPrefix(cardNumber, "4"):
		return NetworkVisa
	case strings.HasPrefix(cardNumber, "5"):
		return NetworkMastercard
	default:
		return NetworkUnknown
	}
}

// CardLast4 returns the last four digits of a PAN, or the whole string when
// shorter.
func Last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
