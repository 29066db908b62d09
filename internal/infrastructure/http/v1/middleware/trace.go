package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tabkeeper/internal/core/appctx"
)

// HeaderRequestID carries the request id across service boundaries.
const HeaderRequestID = "X-Request-ID"

// Trace middleware attaches a request id to every request.
// Honors an incoming X-Request-ID header, generates one otherwise.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		trace := &appctx.TraceContext{RequestID: requestID}
		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
