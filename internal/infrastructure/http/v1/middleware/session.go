package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"tabkeeper/internal/core/appctx"
	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/domain/auth"
)

// SessionCookie is the HTTP-only cookie carrying the session id.
const SessionCookie = "tk_session"

// SessionResolver resolves a session cookie value into a session record.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*auth.Session, error)
}

// Session middleware requires a valid session cookie and populates the
// staff context for downstream handlers.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), cookie)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewInternal(err))
			}
			c.Abort()
			return
		}

		staff := &appctx.Staff{
			SubjectID:   session.SubjectID,
			DisplayName: session.DisplayName,
			Email:       session.Email,
			SessionID:   session.ID.String(),
		}
		ctx := appctx.WithStaff(c.Request.Context(), staff)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("staff_email", session.Email)
		c.Set("session_id", session.ID.String())

		c.Next()
	}
}
