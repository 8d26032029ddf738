package middleware

import (
	"time"

	"github.com/Badsnus/campus-events/pkg/logger/types"
	"github.com/gin-gonic/gin"
)

// Logger logs every request once it is served.
func Logger(log *types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if actor := Actor(c); actor.IsAuthenticated() {
			fields = append(fields, "user_id", actor.UserID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status >= 400:
			log.Warnw("request error", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
