package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/respond"
	"github.com/kevin07696/payment-gateway/internal/services/order"
)

// OrderHandler serves the /orders routes.
type OrderHandler struct {
	svc *order.Service
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt,omitempty"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		Amount:    o.Amount,
		Currency:  o.Currency,
		Receipt:   o.Receipt,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Unix(),
	}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, domain.NewBadRequest("invalid request body"))
		return
	}

	m := middleware.MerchantFrom(c)
	o, err := h.svc.Create(c.Request.Context(), m.ID, order.CreateRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	o, err := h.svc.Get(c.Request.Context(), m.ID, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	m := middleware.MerchantFrom(c)
	limit, offset := pagination(c)

	orders, total, err := h.svc.List(c.Request.Context(), m.ID, limit, offset)
	if err != nil {
		respond.Error(c, err)
		return
	}

	data := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, respond.List{Data: data, Total: total, Limit: limit, Offset: offset})
}
