package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/respond"
	"github.com/kevin07696/payment-gateway/internal/services/refund"
)

// RefundHandler serves the top-level /refunds reads; creation lives under
// /payments/:id/refunds.
type RefundHandler struct {
	svc *refund.Service
}

// NewRefundHandler creates a refund handler.
func NewRefundHandler(svc *refund.Service) *RefundHandler {
	return &RefundHandler{svc: svc}
}

type refundResponse struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	ProcessedAt *int64 `json:"processed_at,omitempty"`
}

func toRefundResponse(r *domain.Refund) refundResponse {
	resp := refundResponse{
		ID:        r.ID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Unix(),
	}
	if r.ProcessedAt != nil {
		ts := r.ProcessedAt.Unix()
		resp.ProcessedAt = &ts
	}
	return resp
}

// Get handles GET /refunds/:id.
func (h *RefundHandler) Get(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	r, err := h.svc.Get(c.Request.Context(), m.ID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toRefundResponse(r))
}

// List handles GET /refunds.
func (h *RefundHandler) List(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	limit, offset := pagination(c)

	refunds, total, err := h.svc.List(c.Request.Context(), m.ID, limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}

	data := make([]refundResponse, 0, len(refunds))
	for _, r := range refunds {
		data = append(data, toRefundResponse(r))
	}
	c.JSON(http.StatusOK, respond.List{Data: data, Total: total, Limit: limit, Offset: offset})
}
