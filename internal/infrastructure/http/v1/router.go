// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tabkeeper/internal/domain/auth"
	"tabkeeper/internal/domain/menu"
	"tabkeeper/internal/domain/order"
	"tabkeeper/internal/infrastructure/http/v1/handlers"
	"tabkeeper/internal/infrastructure/http/v1/middleware"
	"tabkeeper/internal/infrastructure/storage/postgres"
	"tabkeeper/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// Services.
	AuthService  *auth.Service
	MenuService  *menu.Service
	OrderService *order.Service

	// FrontendURL is the browser app origin, used for CORS and
	// post-login redirects.
	FrontendURL string

	// Cookie controls session cookie issuance.
	Cookie handlers.AuthCookieConfig
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// The frontend sends the session cookie cross-origin.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	baseHandler := handlers.NewBaseHandler()

	// Health endpoints (public)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("", healthHandler.Live)
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Identity provider handshake (public)
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService, cfg.Cookie, cfg.FrontendURL)
	router.GET("/auth/google", authHandler.Login)
	router.GET("/auth/google/callback", authHandler.Callback)
	router.GET("/logout", authHandler.Logout)

	// Staff API, session-gated
	api := router.Group("/api")
	api.Use(middleware.Session(cfg.AuthService))
	{
		api.GET("/me", authHandler.Me)

		menuHandler := handlers.NewMenuHandler(baseHandler, cfg.MenuService)
		api.GET("/menu-items", menuHandler.List)

		orderHandler := handlers.NewOrderHandler(baseHandler, cfg.OrderService)
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders/:billNo", orderHandler.Get)
	}

	return router
}
