package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"resumevault-backend/internal/shared/telemetry"
)

// Logging emits one structured line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if userID := UserIDFromContext(c); userID != "" {
			fields["user_id"] = userID
		}
		if docID := c.Param("id"); docID != "" {
			fields["document_id"] = docID
		}

		if c.Writer.Status() >= 500 {
			telemetry.Error("http.request", fields)
		} else {
			telemetry.Info("http.request", fields)
		}
	}
}
