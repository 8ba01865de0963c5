package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/middleware"
	"github.com/kevin07696/payment-gateway/internal/services/merchant"
	"github.com/kevin07696/payment-gateway/internal/services/order"
	"github.com/kevin07696/payment-gateway/internal/services/payment"
	"github.com/kevin07696/payment-gateway/internal/services/refund"
	"github.com/kevin07696/payment-gateway/pkg/observability"
)

// Deps carries everything the router needs.
type Deps struct {
	Store    ports.Store
	Queue    ports.Queue
	Orders   *order.Service
	Payments *payment.Service
	Refunds  *refund.Service
	Merchant *merchant.Service
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewRouter builds the full route tree. /health and /api/v1/test/jobs/status
// are unauthenticated; everything else under /api/v1 requires credentials.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
	}

	system := NewSystemHandler(d.Store, d.Queue, d.Logger)
	orders := NewOrderHandler(d.Orders)
	payments := NewPaymentHandler(d.Payments, d.Refunds)
	refunds := NewRefundHandler(d.Refunds)
	webhooks := NewWebhookHandler(d.Merchant)
	merchants := NewMerchantHandler(d.Merchant)

	r.GET("/health", system.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/test/jobs/status", system.JobStatus)

	authed := v1.Group("", middleware.Auth(d.Store, d.Logger))
	{
		authed.POST("/orders", orders.Create)
		authed.GET("/orders/:id", orders.Get)
		authed.GET("/orders", orders.List)

		authed.POST("/payments", payments.Create)
		authed.GET("/payments/:id", payments.Get)
		authed.GET("/payments", payments.List)
		authed.POST("/payments/:id/capture", payments.Capture)
		authed.POST("/payments/:id/refunds", payments.CreateRefund)

		authed.GET("/refunds/:id", refunds.Get)
		authed.GET("/refunds", refunds.List)

		authed.GET("/webhooks", webhooks.List)
		authed.POST("/webhooks/:id/retry", webhooks.Retry)

		authed.GET("/merchants/profile", merchants.Profile)
		authed.PUT("/merchants/webhook", merchants.UpdateWebhook)
		authed.POST("/merchants/webhook/regenerate-secret", merchants.RegenerateSecret)
		authed.POST("/merchants/webhook/test", merchants.SendTest)
	}

	return r
}
