package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praktis/backend/internal/infrastructure/logger"
)

// RequestIDHeader is the inbound/outbound request id header
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key for the request id
const RequestIDKey = "request_id"

// RequestID propagates the caller's request id, or generates one, and
// stamps it on the response and the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// GetRequestID returns the request id injected by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
