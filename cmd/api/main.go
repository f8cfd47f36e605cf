package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gunjan1sharma/hmac-auth-builder/config"
	httpHandler "github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/handler"
	pgStorage "github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/storage/postgres"
	redisStorage "github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/storage/redis"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/service"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting HMAC Auth Gateway")

	// Validate the signing profile up front so a bad config fails fast
	verifyCfg := cfg.Signing.VerificationConfig()
	if err := verifyCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid signing configuration")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, logger.WithComponent(log, "postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, logger.WithComponent(log, "redis"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories and Redis stores
	credRepo := pgStorage.NewCredentialRepo(pool)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.Secrets.Passphrase, cfg.Secrets.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	credSvc := service.NewCredentialService(credRepo, encSvc)
	adminSvc := service.NewAdminService(cfg.Admin.Username, cfg.Admin.PasswordHash, tokenSvc)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AdminSvc:       adminSvc,
		CredSvc:        credSvc,
		TokenSvc:       tokenSvc,
		NonceStore:     nonceStore,
		VerifyCfg:      verifyCfg,
		NonceTTL:       cfg.Signing.NonceTTL,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         logger.WithComponent(log, "http"),
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
