package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/logger"
)

// RequestLogger writes one structured line per completed request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logg := logger.Get()
		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}
			logg.Error(ctx, "request.complete", err)
		case c.Writer.Status() >= http.StatusBadRequest:
			logg.Warn(ctx, "request.complete")
		default:
			logg.Info(ctx, "request.complete")
		}
	}
}

// Recoverer turns panics into the standard 500 envelope
func Recoverer() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Error(logger.Get().WithField(c.Request.Context(), "panic", recovered), "panic.recovered", nil)
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	})
}
