// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
//
// The response is written here directly: by the time the deferred recover
// runs, the chain has already unwound past ErrorHandler, so registering the
// error on the context would produce no body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"code":    apperror.CodeInternal,
						"message": "Internal server error",
						"details": map[string]any{
							"request_id": c.GetString("request_id"),
						},
					})
				} else {
					c.Abort()
				}
			}
		}()
		c.Next()
	}
}
