package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabkeeper/internal/core/appctx"
	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/domain/auth"
	"tabkeeper/internal/infrastructure/http/v1/middleware"
	"tabkeeper/pkg/logger"
)

// AuthCookieConfig controls how the session cookie is issued.
type AuthCookieConfig struct {
	// Domain is the cookie domain; empty binds to the request host.
	Domain string
	// Secure requires HTTPS; off only for local development.
	Secure bool
	// MaxAge in seconds; should match the session TTL.
	MaxAge int
}

// AuthHandler serves the identity provider handshake and logout.
type AuthHandler struct {
	base        *BaseHandler
	service     *auth.Service
	cookie      AuthCookieConfig
	frontendURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service, cookie AuthCookieConfig, frontendURL string) *AuthHandler {
	return &AuthHandler{
		base:        base,
		service:     service,
		cookie:      cookie,
		frontendURL: frontendURL,
	}
}

// Login redirects the browser to the identity provider's consent page.
// GET /auth/google
func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.service.LoginURL()
	if err != nil {
		h.base.Error(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback completes the handshake, sets the session cookie and sends the
// browser to the frontend. A failed handshake lands on the login page
// without any detail of what went wrong.
// GET /auth/google/callback
func (h *AuthHandler) Callback(c *gin.Context) {
	session, err := h.service.HandleCallback(
		c.Request.Context(),
		c.Query("state"),
		c.Query("code"),
	)
	if err != nil {
		logger.Warn(c.Request.Context(), "sign-in failed", "error", err)
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.ID.String(),
		h.cookie.MaxAge, "/", h.cookie.Domain, h.cookie.Secure, true)

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/dashboard")
}

// Logout deletes the session record, clears the cookie and sends the
// browser back to the frontend.
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie != "" {
		if err := h.service.Logout(c.Request.Context(), cookie); err != nil {
			logger.Warn(c.Request.Context(), "logout cleanup failed", "error", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL)
}

// Me returns the authenticated staff profile.
// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	staff := appctx.GetStaff(c.Request.Context())
	if staff == nil {
		h.base.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	h.base.OK(c, gin.H{
		"email":        staff.Email,
		"display_name": staff.DisplayName,
	})
}
