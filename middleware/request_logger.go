package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syncwell/pendingsync/internal/log"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(lg *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		lg.Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
