package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus transitions only pending → processed.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
)

// Refund returns part or all of a successful payment. The sum of refund
// amounts for a payment never exceeds the payment amount; the store enforces
// this under a row lock on the parent payment.
type Refund struct {
	ID          string
	MerchantID  uuid.UUID
	PaymentID   string
	Amount      int64
	Reason      string
	Status      RefundStatus
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// AvailableRefundAmount computes what may still be refunded for a payment
// given the sum already refunded.
func AvailableRefundAmount(payment *Payment, refundedTotal int64) int64 {
	available := payment.Amount - refundedTotal
	if available < 0 {
		return 0
	}
	return available
}
