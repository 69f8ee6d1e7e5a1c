package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adcut-studio/adcut-api/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or assigns X-Request-Id and tags the request logger with it
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Header(RequestIDHeader, reqID)
		c.Set("request_id", reqID)
		c.Request = c.Request.WithContext(logger.Get().WithRequestID(c.Request.Context(), reqID))

		c.Next()
	}
}
