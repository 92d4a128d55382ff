package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Metrics, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		setupPodcastRoutes(v1, c)
		setupEpisodeRoutes(v1, c)
		setupAdminRoutes(v1, c)
		setupContactRoutes(v1, c)

		v1.GET("/categories", c.PodcastHandler.ListCategories)
	}

	return router
}

// ========================================
// PODCAST ROUTES
// ========================================
func setupPodcastRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.PodcastHandler
	auth := middleware.AuthMiddleware(c.JWTManager)

	podcasts := v1.Group("/podcasts")
	{
		// Public
		podcasts.GET("", h.ListPodcasts)
		podcasts.GET("/search/filter", h.SearchPodcasts)
		podcasts.GET("/:id", h.GetPodcast)
		podcasts.GET("/:id/feed.xml", h.Feed)

		// Authenticated
		podcasts.POST("/request-upload", auth, h.SubmitPodcast)
		podcasts.POST("/:id/episodes", auth, h.AttachEpisode)

		// Admin
		podcasts.PATCH("/:id/status", auth, middleware.AdminMiddleware(), h.UpdateStatus)
	}
}

// ========================================
// EPISODE ROUTES
// ========================================
func setupEpisodeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	h := c.PodcastHandler
	uploadLimiter := middleware.NewRateLimiter(c.Config.RateLimit.UploadURLPerSecond, c.Config.RateLimit.UploadURLBurst)

	episodes := v1.Group("/episodes")
	{
		episodes.GET("", h.ListEpisodes)
		episodes.GET("/:id", h.GetEpisode)
		episodes.POST("/upload-url",
			middleware.AuthMiddleware(c.JWTManager),
			uploadLimiter.Middleware(),
			h.RequestUploadURL,
		)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/podcasts/export", c.PodcastHandler.ExportPodcasts)
	}
}

// ========================================
// CONTACT ROUTES
// ========================================
func setupContactRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Anonymous callers are keyed by client IP
	limiter := middleware.NewRateLimiter(c.Config.RateLimit.ContactPerSecond, c.Config.RateLimit.ContactBurst)
	v1.POST("/contact", limiter.Middleware(), c.ContactHandler.Submit)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error"
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = "error"
			}
		}

		services := gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				services["pool"] = stats
			}
		}
		health["services"] = services

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
