// Package handlers wires the HTTP surface: one file per resource, routing in
// router.go.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit  = 10
	defaultOffset = 0
	maxLimit      = 100
)

// pagination parses limit and offset. Anything unparseable or out of range
// falls back to the defaults rather than failing the request.
func pagination(c *gin.Context) (limit, offset int) {
	limit, offset = defaultLimit, defaultOffset

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxLimit {
			limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
