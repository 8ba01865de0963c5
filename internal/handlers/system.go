package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/respond"
)

// SystemHandler serves the unauthenticated health and queue-status routes.
type SystemHandler struct {
	store  ports.Store
	queue  ports.Queue
	logger *zap.Logger
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(store ports.Store, queue ports.Queue, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{store: store, queue: queue, logger: logger}
}

// Health handles GET /health.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// JobStatus handles GET /test/jobs/status. Counts come from the queue
// backend, so any process's numbers agree.
func (h *SystemHandler) JobStatus(c *gin.Context) {
	status := make(map[string]ports.QueueCounts, 3)
	for _, name := range []string{
		ports.QueuePaymentProcessing,
		ports.QueueRefundProcessing,
		ports.QueueWebhookDelivery,
	} {
		counts, err := h.queue.Counts(c.Request.Context(), name)
		if err != nil {
			respond.Error(c, domain.WrapInternal(err))
			return
		}
		status[name] = counts
	}
	c.JSON(http.StatusOK, status)
}
