package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/http/middleware"
	redisStore "github.com/gunjan1sharma/hmac-auth-builder/internal/adapter/storage/redis"
	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/ports"
	"github.com/gunjan1sharma/hmac-auth-builder/pkg/hmacauth"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AdminSvc       ports.AdminService
	CredSvc        ports.CredentialService
	TokenSvc       ports.TokenService
	NonceStore     ports.NonceStore
	VerifyCfg      hmacauth.VerificationConfig
	NonceTTL       time.Duration
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AdminSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/token", rl("auth_login"), authHandler.Login)
	}

	// --- HMAC-authenticated routes (signed client API) ---
	hmacAuth := middleware.HMACAuth(deps.CredSvc, deps.NonceStore, deps.VerifyCfg, deps.NonceTTL, deps.Logger)
	ingest := v1.Group("/ingest", hmacAuth)
	{
		ingest.POST("", rl("verify"), Ingest)
	}

	// --- JWT-authenticated routes (management API) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	credHandler := NewCredentialHandler(deps.CredSvc)
	credentials := v1.Group("/credentials", jwtAuth)
	{
		credentials.POST("", rl("credentials"), credHandler.Issue)
		credentials.GET("/:accessKey", rl("credentials"), credHandler.Get)
		credentials.DELETE("/:accessKey", rl("credentials"), credHandler.Revoke)
	}

	sigHandler := NewSignatureHandler(deps.VerifyCfg.SigningConfig)
	sign := v1.Group("/sign", jwtAuth)
	{
		sign.POST("/preview", rl("preview"), sigHandler.Preview)
	}

	return r
}
