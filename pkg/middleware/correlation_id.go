package middleware

import (
	"github.com/dendrix-ai/dendrix-web/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request id in and out
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the gin context key for the request id
	CorrelationIDKey = "correlation_id"
)

// CorrelationID reuses the caller's request id or mints one, and attaches it
// to the request context so every log line of the request carries it
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Request = c.Request.WithContext(logger.ContextWithCorrelationID(c.Request.Context(), correlationID))
		c.Writer.Header().Set(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID extracts the request id from the gin context
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
