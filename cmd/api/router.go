package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"library-api/internal/infrastructure/database"
	"library-api/internal/shared/middleware"
	"library-api/internal/shared/ratelimit"
	"library-api/pkg/container"
)

const healthTimeout = 2 * time.Second

func SetupRouter(c *container.Container) *gin.Engine {
	// request bodies with unknown properties are rejected
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middlewares. ErrorHandler sits after Recovery so it also
	// sees errors raised by the rate limiter.
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.ErrorHandler(),
	)

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// c.Redis is a nil pointer when disabled; keep the interface nil too
	var redis pinger
	if c.Redis != nil {
		redis = c.Redis
	}
	router.GET("/health", healthCheckHandler(c.DB, redis, c.Limiter, c.Config.App.Version))

	api := router.Group("")
	if c.Limiter != nil {
		api.Use(middleware.RateLimit(c.Limiter))
	}

	setupAuthorRoutes(api, c)
	setupBookRoutes(api, c)

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(rg *gin.RouterGroup, c *container.Container) {
	c.AuthorHandler.RegisterRoutes(rg)
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	c.BookHandler.RegisterRoutes(rg)
}

// ========================================
// HEALTH
// ========================================

type pinger interface {
	HealthCheck(ctx context.Context) error
}

type healthChecker interface {
	pinger
	Stats() *database.PoolStats
}

// healthCheckHandler reports 503 only when the database is down; Redis
// is optional and a failure there just shows up in the body
func healthCheckHandler(db healthChecker, redis pinger, limiter ratelimit.Limiter, version string) gin.HandlerFunc {
	limiterName := "disabled"
	if limiter != nil {
		limiterName = limiter.Name()
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		health := gin.H{
			"status":      "ok",
			"database":    "up",
			"rateLimiter": limiterName,
			"version":     version,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}

		switch {
		case redis == nil:
			health["redis"] = "disabled"
		case redis.HealthCheck(ctx) != nil:
			health["redis"] = "down"
		default:
			health["redis"] = "up"
		}

		if err := db.HealthCheck(ctx); err != nil {
			health["status"] = "degraded"
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}

		if stats := db.Stats(); stats != nil {
			health["pool"] = stats
		}
		c.JSON(http.StatusOK, health)
	}
}
