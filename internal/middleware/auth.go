// Package middleware holds the gin middleware for authentication and CORS.
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/domain/ports"
	"github.com/kevin07696/payment-gateway/internal/respond"
)

// Credential headers.
const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderAPISecret = "X-Api-Secret"
)

// merchantKey is the gin context key the authenticated merchant lives under.
const merchantKey = "authenticated_merchant"

// Auth authenticates every request from the credential header pair and puts
// the merchant on the context. Missing and wrong credentials are
// indistinguishable to the caller.
func Auth(store ports.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(HeaderAPIKey)
		apiSecret := c.GetHeader(HeaderAPISecret)
		if apiKey == "" || apiSecret == "" {
			respond.Error(c, domain.NewUnauthorized("missing api credentials"))
			return
		}

		merchant, err := store.GetMerchantByCredentials(c.Request.Context(), apiKey, apiSecret)
		if err != nil {
			if domain.CodeOf(err) != domain.ErrorCodeUnauthorized {
				logger.Error("credential lookup failed", zap.Error(err))
			}
			respond.Error(c, domain.NewUnauthorized("invalid api credentials"))
			return
		}

		c.Set(merchantKey, merchant)
		c.Next()
	}
}

// MerchantFrom returns the authenticated merchant set by Auth.
func MerchantFrom(c *gin.Context) *domain.Merchant {
	v, ok := c.Get(merchantKey)
	if !ok {
		return nil
	}
	return v.(*domain.Merchant)
}
