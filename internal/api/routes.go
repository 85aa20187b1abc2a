package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with logging, recovery and all routes.
// gatherer backs /metrics; nil uses the default registry.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, logger *slog.Logger) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		jobs := api.Group("/jobs")
		{
			jobs.GET("/search", h.SearchJobs)
			jobs.GET("/trending", h.Trending)
			jobs.GET("/categories/:category", h.Category)
			jobs.GET("/:id", h.GetJob)
		}

		api.GET("/sources", h.Sources)

		admin := api.Group("/admin", requireAdminToken(h.adminToken))
		{
			admin.DELETE("/cache", h.ClearCache)
		}
	}

	return router
}
