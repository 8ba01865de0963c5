package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/respond"
	"github.com/kevin07696/payment-gateway/internal/services/merchant"
)

// MerchantHandler serves the merchant self-service routes.
type MerchantHandler struct {
	svc *merchant.Service
}

// NewMerchantHandler creates a merchant handler.
func NewMerchantHandler(svc *merchant.Service) *MerchantHandler {
	return &MerchantHandler{svc: svc}
}

// merchantResponse never carries the API secret; it is shown once at seed
// time only.
type merchantResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	APIKey     string    `json:"api_key"`
	WebhookURL string    `json:"webhook_url,omitempty"`
	CreatedAt  int64     `json:"created_at"`
}

func toMerchantResponse(m *domain.Merchant) merchantResponse {
	return merchantResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		APIKey:     m.APIKey,
		WebhookURL: m.WebhookURL,
		CreatedAt:  m.CreatedAt.Unix(),
	}
}

// Profile handles GET /merchants/profile.
func (h *MerchantHandler) Profile(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	profile, err := h.svc.Profile(c.Request.Context(), m.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toMerchantResponse(profile))
}

type updateWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// UpdateWebhook handles PUT /merchants/webhook.
func (h *MerchantHandler) UpdateWebhook(c *gin.Context) {
	var req updateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, domain.NewBadRequest("invalid request body"))
		return
	}

	m := middleware.MerchantFrom(c)
	updated, err := h.svc.UpdateWebhookURL(c.Request.Context(), m.ID, req.WebhookURL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toMerchantResponse(updated))
}

// RegenerateSecret handles POST /merchants/webhook/regenerate-secret. The
// new secret appears in this response only.
func (h *MerchantHandler) RegenerateSecret(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	secret, err := h.svc.RegenerateWebhookSecret(c.Request.Context(), m.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhook_secret": secret})
}

// SendTest handles POST /merchants/webhook/test.
func (h *MerchantHandler) SendTest(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	if err := h.svc.SendTestWebhook(c.Request.Context(), m.ID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "test webhook queued"})
}
