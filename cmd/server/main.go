// Package main is the entry point for the tabkeeper API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	infrabilling "tabkeeper/internal/infrastructure/billing"
	v1 "tabkeeper/internal/infrastructure/http/v1"
	"tabkeeper/internal/infrastructure/http/v1/handlers"
	"tabkeeper/internal/infrastructure/storage/postgres"
	"tabkeeper/internal/infrastructure/storage/postgres/menu_repo"
	"tabkeeper/internal/infrastructure/storage/postgres/order_repo"
	"tabkeeper/internal/infrastructure/storage/postgres/session_repo"

	"tabkeeper/internal/domain/auth"
	"tabkeeper/internal/domain/menu"
	"tabkeeper/internal/domain/order"
	"tabkeeper/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tabkeeper server")

	// --- Database ---
	dbURL := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Auth Service ---
	authConfig := auth.DefaultServiceConfig()
	if ttl := getEnvDuration("SESSION_TTL", authConfig.SessionTTL); ttl > 0 {
		authConfig.SessionTTL = ttl
	}

	provider := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:     mustEnv("GOOGLE_CLIENT_ID"),
		ClientSecret: mustEnv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  mustEnv("GOOGLE_CALLBACK_URL"),
	})
	stateSigner := auth.NewStateSigner(mustEnv("SESSION_SECRET"), authConfig.StateTTL)
	sessionStore := session_repo.NewSessionRepo(txManager)
	authService := auth.NewService(provider, sessionStore, stateSigner, authConfig)

	// --- Order Service ---
	allocator := infrabilling.New(txManager)
	orderRepo := order_repo.NewOrderRepo(txManager)

	auditLog, err := postgres.NewOrderAuditLog(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit log", "error", err)
	}
	defer auditLog.Close()

	orderService := order.NewService(orderRepo, allocator, txManager, auditLog)

	// --- Menu Service ---
	menuService := menu.NewService(menu_repo.NewMenuRepo(txManager))

	// --- Router ---
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Logger:       log.WithComponent("http"),
		AuthService:  authService,
		MenuService:  menuService,
		OrderService: orderService,
		FrontendURL:  frontendURL,
		Cookie: handlers.AuthCookieConfig{
			Domain: getEnv("COOKIE_DOMAIN", ""),
			Secure: getEnv("COOKIE_SECURE", "false") == "true",
			MaxAge: int(authConfig.SessionTTL.Seconds()),
		},
	})

	// --- Background maintenance: session sweep + pool stats ---
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour))
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				authService.SweepExpired(sweepCtx)
				postgres.LogPoolStats(sweepCtx, pool.Pool)
			}
		}
	}()

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
