package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Webhook event tags. payment.created and payment.pending are documented
// upstream but never emitted.
const (
	EventPaymentSuccess  = "payment.success"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"
	EventTestWebhook     = "test.webhook"
)

// WebhookLogStatus tracks a delivery's lifecycle. pending means a delivery
// job is scheduled or in flight; success and failed are terminal.
type WebhookLogStatus string

const (
	WebhookStatusPending WebhookLogStatus = "pending"
	WebhookStatusSuccess WebhookLogStatus = "success"
	WebhookStatusFailed  WebhookLogStatus = "failed"
)

// MaxResponseBodyLen bounds the stored response body.
const MaxResponseBodyLen = 1000

// WebhookLog is the audit record of one event's delivery attempts to a
// merchant endpoint.
type WebhookLog struct {
	ID            uuid.UUID
	MerchantID    uuid.UUID
	Event         string
	Payload       json.RawMessage
	Status        WebhookLogStatus
	Attempts      int
	LastAttemptAt *time.Time
	NextRetryAt   *time.Time
	ResponseCode  *int
	ResponseBody  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WebhookPayload is the canonical wire shape. It is serialized exactly once
// per attempt; the signature covers those exact bytes.
type WebhookPayload struct {
	Event     string          `json:"event"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// TruncateResponseBody clamps a response body for storage.
func TruncateResponseBody(body string) string {
	if len(body) > MaxResponseBodyLen {
		return body[:MaxResponseBodyLen]
	}
	return body
}
