// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, submission dedupe, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/config"
	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/http/handlers"
	"github.com/aispire/go-career-backend/internal/http/middleware"
	"github.com/aispire/go-career-backend/internal/services"
	"github.com/aispire/go-career-backend/internal/token"
)

// tokenVerifierShim adapts the token service to the narrow verifier contract
// the auth middleware expects, keeping the middleware decoupled from JWT
// specifics.
type tokenVerifierShim struct{ svc *token.Service }

// Verify returns the subject user id of a valid token.
func (s tokenVerifierShim) Verify(tok string) (string, error) {
	claims, err := s.svc.Verify(tok)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics (+ /metrics endpoint)
//  7. Response compression
//  8. Rate limiter (per user/IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, notifier services.FeedbackNotifier, completer services.Completer, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression (skip the metrics scrape)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture. With a configured CLIENT_URL the allowlist is strict
	// and credentialed (cookie auth); without one, development falls back to
	// allow-all, which forbids credentials.
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderSubmitKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderSubmitKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.FailMessage(c, http.StatusNotFound, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.FailMessage(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db and external collaborators
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(db, tokens)
	fbSvc := services.NewFeedbackService(db, notifier, cfg.SubmitTTL)
	chatSvc := services.NewChatService(db, completer)
	h := handlers.New(authSvc, fbSvc, chatSvc, cfg.TokenTTL)

	verifier := tokenVerifierShim{svc: tokens}
	authed := middleware.Authenticate(verifier, authSvc)
	maybeAuthed := middleware.OptionalAuthenticate(verifier, authSvc)

	api := r.Group("/api")
	{
		// Accounts
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", authed, h.Me)

		// Public feedback submission; a valid session links the record to
		// the account, and an Idempotency-Key absorbs client retries.
		api.POST("/feedback", maybeAuthed, middleware.SubmitKeyValidator(), h.CreateFeedback)

		// Moderation surface, gated server-side by role.
		admin := api.Group("/feedback", authed, middleware.RequireRoles(domain.RoleAdmin, domain.RoleModerator))
		{
			admin.GET("", h.ListFeedback)
			admin.PATCH("/:id", h.UpdateFeedback)
			admin.DELETE("/:id", h.DeleteFeedback)
		}

		// Assistant relay (public, rate limited globally)
		api.POST("/chat", maybeAuthed, h.Chat)
		api.GET("/chat/history/:sessionId", h.ChatHistory)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints using http.MaxBytesReader. Requests exceeding the cap cause
// downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
