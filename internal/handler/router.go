package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/config"
	"linkbio/internal/plan"
	"linkbio/pkg/logger"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Links     *LinkHandler
	Slugs     *SlugHandler
	Profiles  *ProfileHandler
	Clicks    *ClickHandler
	Analytics *AnalyticsHandler
}

// NewRouter configures the Gin router with middleware and routes
func NewRouter(h Handlers, cfg *config.Config, log *logger.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg))
	router.Use(SecurityHeadersMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))
	if cfg.RequestTimeout > 0 {
		router.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "linkbio",
		})
	})

	// Public endpoints
	router.POST("/track-click", h.Clicks.TrackClick)

	v1 := router.Group("/api/v1")
	v1.GET("/public/:slug/links", h.Links.PublicLinks)

	authed := v1.Group("", AuthMiddleware(cfg.AuthJWTSecret, log))
	{
		links := authed.Group("/links")
		links.GET("", h.Links.ListLinks)
		links.POST("", h.Links.CreateLink)
		links.GET("/count", h.Links.CountLinks)
		links.POST("/reorder", h.Links.ReorderLinks)
		links.PUT("/:id", h.Links.UpdateLink)
		links.DELETE("/:id", h.Links.DeleteLink)

		profile := authed.Group("/profile")
		profile.GET("/slug", h.Slugs.GetSlug)
		profile.PUT("/slug", h.Slugs.ClaimSlug)
		profile.GET("/slug/availability", h.Slugs.CheckAvailability)
		profile.GET("/customization", h.Profiles.GetCustomization)
		profile.PUT("/customization", h.Profiles.UpdateCustomization)

		stats := authed.Group("/analytics", RequireCapability(plan.Analytics))
		stats.GET("", h.Analytics.OwnerMetrics)
		stats.GET("/links/:id", h.Analytics.LinkMetrics)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
		})
	})

	return router
}
