// Package respond writes API responses in the gateway's wire format: raw
// resources on success, the error envelope on failure.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// ErrorBody is the envelope carried by every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the machine-readable failure description.
type ErrorDetail struct {
	Code        domain.ErrorCode `json:"code"`
	Description string           `json:"description"`
}

// statusFor maps wire codes to HTTP statuses.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrorCodeBadRequest:
		return http.StatusBadRequest
	case domain.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrorCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the envelope for err and ends the request.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	c.AbortWithStatusJSON(statusFor(code), ErrorBody{Error: ErrorDetail{
		Code:        code,
		Description: domain.DescriptionOf(err),
	}})
}

// List is the paginated collection envelope.
type List struct {
	Data   any   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
