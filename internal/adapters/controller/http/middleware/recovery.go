package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Badsnus/campus-events/pkg/logger/types"
	"github.com/gin-gonic/gin"
)

func Recovery(log *types.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorw("panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
