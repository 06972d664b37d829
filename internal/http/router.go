// Package httpapi wires the local control API (Gin) to the handlers and
// middleware. It centralizes cross-cutting concerns: tracing, correlation
// ids, caller identity, logging with redaction, panic recovery, metrics,
// compression, rate limiting, CORS and security headers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-fitness-sync/docs"
	"github.com/tbourn/go-fitness-sync/internal/config"
	"github.com/tbourn/go-fitness-sync/internal/http/handlers"
	"github.com/tbourn/go-fitness-sync/internal/http/middleware"
)

// HealthCheck reports whether the local store is usable.
type HealthCheck func(ctx context.Context) error

var allowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserIDHeader, "X-Request-ID"}

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID, then Identity: correlation and acting user
//  3. AccessLog: structured logs with PII scrubbing
//  4. Recovery: capture panics after the logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (except /metrics)
//  8. Rate limiter (per user, else IP)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, health HealthCheck, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity(cfg.Sync.UserID))
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskHeaders: []string{"X-Remote-Token"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		NoStore:    true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeStoreUnavailable, err.Error())
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Sessions
		api.GET("/sessions", h.ListSessions)
		api.PUT("/sessions/:id", h.SaveSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.PUT("/sessions/:id/sets", h.SaveSets)
		api.GET("/sessions/:id/sets", h.ListSets)

		// Programs
		api.GET("/programs", h.ListPrograms)
		api.PUT("/programs/:id", h.SaveProgram)
		api.GET("/programs/:id", h.GetProgram)
		api.DELETE("/programs/:id", h.DeleteProgram)

		// Templates
		api.GET("/templates", h.ListTemplates)
		api.PUT("/templates/:id", h.SaveTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)

		// Gyms
		api.GET("/gyms", h.ListGyms)
		api.PUT("/gyms/:id", h.SaveGym)
		api.GET("/gyms/:id", h.GetGym)
		api.DELETE("/gyms/:id", h.DeleteGym)

		// Measurements, goals, achievements
		api.GET("/measurements", h.ListMeasurements)
		api.PUT("/measurements/:id", h.SaveMeasurement)
		api.DELETE("/measurements/:id", h.DeleteMeasurement)
		api.GET("/goals", h.ListGoals)
		api.PUT("/goals/:id", h.SaveGoal)
		api.DELETE("/goals/:id", h.DeleteGoal)
		api.GET("/achievements", h.ListAchievements)
		api.PUT("/achievements/:id", h.SaveAchievement)
		api.DELETE("/achievements/:id", h.DeleteAchievement)

		// Stats
		api.GET("/stats/volume", h.Volume)
		api.GET("/stats/frequency", h.Frequency)
		api.GET("/stats/streaks", h.Streaks)
		api.GET("/stats/records/:exercise", h.Record)

		// Sync control
		api.GET("/sync/status", h.GetSyncStatus)
		api.POST("/sync/trigger", h.TriggerSync)
		api.GET("/sync/queue", h.ListQueue)
		api.DELETE("/sync/queue", h.ClearQueue)
		api.POST("/connectivity", h.SetConnectivity)
		api.POST("/lifecycle/foreground", h.Foreground)

		// Account
		api.POST("/account/signout", h.SignOut)
		api.POST("/account/signin", h.SignIn)
		api.PUT("/preferences", h.SavePreferences)
		api.GET("/ui-state/:key", h.GetUIState)
		api.PUT("/ui-state/:key", h.PutUIState)
	}
}

// limitBody caps the request body at maxBytes; larger bodies fail to bind.
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
