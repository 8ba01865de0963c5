package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PaymentJob asks a worker to decide the outcome of a pending payment.
type PaymentJob struct {
	PaymentID string `json:"payment_id"`
}

// RefundJob asks a worker to process a pending refund.
type RefundJob struct {
	RefundID string `json:"refund_id"`
}

// WebhookJob asks the deliverer to attempt one delivery of an event. LogID
// is empty on first fan-out; the deliverer creates the log and carries its
// id through subsequent attempts. The job's Data wins over the stored log
// payload if they ever diverge.
type WebhookJob struct {
	LogID      *uuid.UUID      `json:"log_id,omitempty"`
	MerchantID uuid.UUID       `json:"merchant_id"`
	Event      string          `json:"event"`
	Data       json.RawMessage `json:"data"`
}
