package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/respond"
	"github.com/kevin07696/payment-gateway/internal/services/merchant"
)

// WebhookHandler serves the delivery-log routes.
type WebhookHandler struct {
	svc *merchant.Service
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(svc *merchant.Service) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

type webhookLogResponse struct {
	ID            uuid.UUID       `json:"id"`
	Event         string          `json:"event"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Status        string          `json:"status"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt *int64          `json:"last_attempt_at,omitempty"`
	NextRetryAt   *int64          `json:"next_retry_at,omitempty"`
	ResponseCode  *int            `json:"response_code,omitempty"`
	ResponseBody  string          `json:"response_body,omitempty"`
	CreatedAt     int64           `json:"created_at"`
}

func toWebhookLogResponse(w *domain.WebhookLog) webhookLogResponse {
	resp := webhookLogResponse{
		ID:           w.ID,
		Event:        w.Event,
		Payload:      w.Payload,
		Status:       string(w.Status),
		Attempts:     w.Attempts,
		ResponseCode: w.ResponseCode,
		ResponseBody: w.ResponseBody,
		CreatedAt:    w.CreatedAt.Unix(),
	}
	if w.LastAttemptAt != nil {
		ts := w.LastAttemptAt.Unix()
		resp.LastAttemptAt = &ts
	}
	if w.NextRetryAt != nil {
		ts := w.NextRetryAt.Unix()
		resp.NextRetryAt = &ts
	}
	return resp
}

// List handles GET /webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	limit, offset := pagination(c)

	logs, total, err := h.svc.ListWebhookLogs(c.Request.Context(), m.ID, limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}

	data := make([]webhookLogResponse, 0, len(logs))
	for _, w := range logs {
		data = append(data, toWebhookLogResponse(w))
	}
	c.JSON(http.StatusOK, respond.List{Data: data, Total: total, Limit: limit, Offset: offset})
}

// Retry handles POST /webhooks/:id/retry.
func (h *WebhookHandler) Retry(c *gin.Context) {
	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.Error(c, domain.NewNotFound("webhook log"))
		return
	}

	m := middleware.MerchantFrom(c)
	log, err := h.svc.RetryWebhook(c.Request.Context(), m.ID, logID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toWebhookLogResponse(log))
}
