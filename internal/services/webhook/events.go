package webhook

import (
	"encoding/json"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// paymentEvent is the data block of payment.success and payment.failed
// events.
type paymentEvent struct {
	Payment paymentData `json:"payment"`
}

type paymentData struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Method           string `json:"method"`
	VPA              string `json:"vpa,omitempty"`
	Status           string `json:"status"`
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	CreatedAt        int64  `json:"created_at"`
}

// refundEvent is the data block of refund.processed events.
type refundEvent struct {
	Refund refundData `json:"refund"`
}

type refundData struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	ProcessedAt *int64 `json:"processed_at,omitempty"`
}

// PaymentEventData builds the data block for a terminal payment.
func PaymentEventData(p *domain.Payment) (json.RawMessage, error) {
	return json.Marshal(paymentEvent{Payment: paymentData{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Method:           string(p.Method),
		VPA:              p.VPA,
		Status:           string(p.Status),
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
		CreatedAt:        p.CreatedAt.Unix(),
	}})
}

// EventForPayment maps a terminal payment status to its event tag.
func EventForPayment(p *domain.Payment) string {
	if p.Status == domain.PaymentStatusSuccess {
		return domain.EventPaymentSuccess
	}
	return domain.EventPaymentFailed
}

// RefundEventData builds the data block for a processed refund.
func RefundEventData(r *domain.Refund) (json.RawMessage, error) {
	ev := refundEvent{Refund: refundData{
		ID:        r.ID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Unix(),
	}}
	if r.ProcessedAt != nil {
		ts := r.ProcessedAt.Unix()
		ev.Refund.ProcessedAt = &ts
	}
	return json.Marshal(ev)
}

// TestEventData is the fixed data block of test.webhook events.
func TestEventData() json.RawMessage {
	return json.RawMessage(`{"message":"This is a test webhook"}`)
}
