// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, security
// headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-streak-bot/internal/clist"
	"github.com/tbourn/go-streak-bot/internal/config"
	"github.com/tbourn/go-streak-bot/internal/http/handlers"
	"github.com/tbourn/go-streak-bot/internal/http/middleware"
	"github.com/tbourn/go-streak-bot/internal/leetcode"
	"github.com/tbourn/go-streak-bot/internal/services"
	"github.com/tbourn/go-streak-bot/internal/telegram"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting and
// security headers, health and metrics endpoints, and then mounts the
// webhook and operator endpoints.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB; Telegram updates are far smaller)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 8) Security headers (HSTS only when the request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		NoStore: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: providers ← config, services ← providers/db
	lc := leetcode.NewClient(cfg.LeetCodeGraphQLURL)
	ratings := clist.NewClient(cfg.ClistAPIURL, cfg.ClistAPIKey)
	tg := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken)

	problemSvc := &services.ProblemService{DB: db, Daily: lc, Ratings: ratings}
	streakSvc := &services.StreakService{DB: db}
	reconcileSvc := &services.ReconcileService{
		DB:          db,
		Problems:    problemSvc,
		Streaks:     streakSvc,
		Submissions: lc,
		Transport:   tg,
		FetchLimit:  cfg.SubmissionFetchLimit,
	}
	cmdSvc := &services.CommandService{DB: db, Problems: problemSvc}

	h := handlers.New(cmdSvc, reconcileSvc, tg, cfg.Telegram.WebhookSecret)

	r.POST("/telegram/webhook", h.Webhook)
	r.POST("/internal/reconcile", h.Reconcile)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the
// cap will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
