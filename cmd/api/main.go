package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/delivery/http/middleware"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	redisrepo "portfolio-backend/internal/repository/redis"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	redispkg "portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Contact form backend for the portfolio site.
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	secLog := security.InitSecurityLogger("portfolio-backend", cfg.Environment)
	defer func() { _ = secLog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Log.Info("Starting portfolio backend",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"recipient", cfg.RecipientEmail,
		"cors_origin", corsOrigin(cfg.AllowedOrigin),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup Rate Limit Stores
	memStore := memory.NewRateLimitStore(cfg.RateLimitMax, cfg.RateLimitWindow)
	memStore.StartCleanup(ctx, time.Minute)

	var store domain.RateLimitStore = memStore
	var fallback domain.RateLimitStore
	redisClient, err := redispkg.Connect(ctx, redispkg.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	})
	switch {
	case err == nil:
		defer redisClient.Close()
		store = redisrepo.NewRateLimitStore(redisClient, "ratelimit:contact:", cfg.RateLimitMax, cfg.RateLimitWindow)
		fallback = memStore
		logger.Log.Info("Rate limiting backed by Redis", "fail_closed", cfg.RateLimitFailClosed)
	case errors.Is(err, redispkg.ErrNotConfigured):
		logger.Log.Info("Rate limiting uses in-memory store")
	default:
		logger.Log.Warn("Redis unavailable, rate limiting uses in-memory store", "error", err)
	}

	// 4. Setup Email
	transport := email.NewSMTPTransport(cfg)
	if !transport.IsConfigured() {
		logger.Log.Warn("Email transport not fully configured - contact submissions will fail")
	}
	dispatcher := email.NewDispatcher(transport, cfg.MailTimeout)
	composer := email.NewComposer(cfg)

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(validation.New(), composer, dispatcher, secLog)
	healthUC := usecase.NewHealthUsecase()

	// 6. Setup Router
	limiter := middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(store, fallback, cfg.RateLimitFailClosed))
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		HealthUC:    healthUC,
		RateLimiter: limiter,
		Logger:      logger.Log,
		Config:      cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.MailTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.MailTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func corsOrigin(origin string) string {
	if origin == "" {
		return "any (FRONTEND_URL unset)"
	}
	return origin
}
