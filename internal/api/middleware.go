package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminTokenHeader carries the admin token for destructive endpoints.
const AdminTokenHeader = "X-Admin-Token"

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start).Round(time.Microsecond),
			"ip", c.ClientIP(),
		}
		switch {
		case len(c.Errors) > 0:
			logger.Error("request processed", append(attrs, "errors", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request processed", attrs...)
		default:
			logger.Info("request processed", attrs...)
		}
	}
}

// requireAdminToken rejects requests without the configured token.
// An empty token leaves the route open.
func requireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or missing admin token"})
			return
		}
		c.Next()
	}
}
