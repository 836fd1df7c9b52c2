// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, webhook authentication and rate limiting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-tg-updates/docs"
	"github.com/tbourn/go-tg-updates/internal/config"
	"github.com/tbourn/go-tg-updates/internal/http/handlers"
	"github.com/tbourn/go-tg-updates/internal/http/middleware"
	"github.com/tbourn/go-tg-updates/internal/publish"
	"github.com/tbourn/go-tg-updates/internal/services"
)

// defaultMaxBodyBytes applies when cfg.MaxBodyBytes is unset.
const defaultMaxBodyBytes = 1 << 20

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath. pub receives every
// newly accepted update; nil disables dispatch.
//
// Global middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. Logger (with redaction)
//  4. Recovery
//  5. Body size limiter
//  6. Metrics
//  7. CORS and security headers
//
// The webhook route adds the secret-token guard and the rate limiter, in that
// order, so unauthenticated traffic does not consume tokens.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, pub publish.Publisher, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	r.Use(limitBody(maxBody))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/publisher
	ingest := services.NewIngestService(db, pub)
	if cfg.ReceiptTTL > 0 {
		ingest.ReceiptTTL = cfg.ReceiptTTL
	}
	h := handlers.New(ingest, services.NewStatsService(db))

	key := middleware.KeyByIP()
	if cfg.RateScope == "global" {
		key = middleware.KeyGlobal()
	}
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, key)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/updates", middleware.WebhookSecret(cfg.Security.WebhookSecret), rl.Handler(), h.PostUpdate)
		api.POST("/updates/classify", h.ClassifyUpdate)

		read := api.Group("", gzip.Gzip(gzip.DefaultCompression))
		read.GET("/registry/kinds", h.ListKinds)
		read.GET("/registry/subkinds", h.ListSubkinds)
		read.GET("/stats", h.Stats)
	}
}

// corsMiddleware returns the CORS posture: allow all origins when none are
// configured, otherwise echo allowed origins only.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Update-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body at maxBytes; reads beyond it fail with
// *http.MaxBytesError, which handlers answer with 413.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
