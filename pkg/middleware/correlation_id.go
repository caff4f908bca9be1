package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/choiby7/kickboard-rental-service/pkg/logger"
)

const (
	// CorrelationIDHeader is the header carrying the request id.
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the gin context key for the request id.
	CorrelationIDKey = "correlation_id"
)

// CorrelationID extracts or generates a request id and attaches a
// request-scoped logger to the request context.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Writer.Header().Set(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(
			logger.WithCorrelationID(c.Request.Context(), correlationID))

		c.Next()
	}
}

// GetCorrelationID returns the request id stored in the gin context.
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
