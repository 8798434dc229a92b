package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

// auth returns a middleware that validates the API key.
func auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if key == "" || key != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errEnvelope("UNAUTHORIZED", "invalid api key"))
			return
		}
		c.Next()
	}
}

// requestLogger returns a middleware that tags every request with a unique
// ID and logs it. The ID is echoed in the X-Request-Id response header so
// clients can correlate failures with server logs.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		requestID := types.GenerateID("req")
		c.Header("X-Request-Id", requestID)

		c.Next()

		log.Info("request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
