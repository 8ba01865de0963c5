package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/respond"
	"github.com/kevin07696/payment-gateway/internal/services/payment"
	"github.com/kevin07696/payment-gateway/internal/services/refund"
)

// IdempotencyKeyHeader dedupes payment creation.
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler serves the /payments routes, including nested refunds.
type PaymentHandler struct {
	payments *payment.Service
	refunds  *refund.Service
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(payments *payment.Service, refunds *refund.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments, refunds: refunds}
}

type createPaymentRequest struct {
	OrderID    string `json:"order_id"`
	Method     string `json:"method"`
	VPA        string `json:"vpa"`
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVV    string `json:"card_cvv"`
}

// Create handles POST /payments. On success the body is the service's
// serialized response so idempotent replays are byte-identical.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, domain.NewBadRequest("invalid request body"))
		return
	}

	m := middleware.MerchantFrom(c)
	body, err := h.payments.Create(c.Request.Context(), m.ID, payment.CreateRequest{
		OrderID:        req.OrderID,
		Method:         req.Method,
		VPA:            req.VPA,
		CardNumber:     req.CardNumber,
		CardExpiry:     req.CardExpiry,
		CardCVV:        req.CardCVV,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", body)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	p, err := h.payments.Get(c.Request.Context(), m.ID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse(p))
}

// List handles GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	limit, offset := pagination(c)

	payments, total, err := h.payments.List(c.Request.Context(), m.ID, limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}

	data := make([]payment.Response, 0, len(payments))
	for _, p := range payments {
		data = append(data, payment.ToResponse(p))
	}
	c.JSON(http.StatusOK, respond.List{Data: data, Total: total, Limit: limit, Offset: offset})
}

type captureRequest struct {
	// Amount is accepted for API-shape compatibility and ignored: capture is
	// always for the full payment amount.
	Amount int64 `json:"amount"`
}

// Capture handles POST /payments/:id/capture.
func (h *PaymentHandler) Capture(c *gin.Context) {
	var req captureRequest
	_ = c.ShouldBindJSON(&req)

	m := middleware.MerchantFrom(c)
	p, err := h.payments.Capture(c.Request.Context(), m.ID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse(p))
}

type createRefundRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// CreateRefund handles POST /payments/:id/refunds.
func (h *PaymentHandler) CreateRefund(c *gin.Context) {
	var req createRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, domain.NewBadRequest("invalid request body"))
		return
	}

	m := middleware.MerchantFrom(c)
	r, err := h.refunds.Create(c.Request.Context(), m.ID, c.Param("id"), refund.CreateRequest{
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRefundResponse(r))
}
