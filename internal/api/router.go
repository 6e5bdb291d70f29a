package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foldcraft/foldcraft-api/internal/api/handlers"
	apimiddleware "github.com/foldcraft/foldcraft-api/internal/api/middleware"
	"github.com/foldcraft/foldcraft-api/internal/config"
	"github.com/foldcraft/foldcraft-api/internal/studio"
	"github.com/foldcraft/foldcraft-api/web"
)

// SetupRouter wires the studio controller and structure fetcher into the
// HTTP surface.
func SetupRouter(controller *studio.Controller, fetcher studio.StructureFetcher, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Embedded studio assets
	router.StaticFS("/static", http.FS(web.Static()))
	router.GET("/", handlers.Studio)

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg.OracleModel)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1
	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		designHandler := handlers.NewDesignHandler(controller)
		v1.POST("/designs", designHandler.Generate)
		v1.POST("/designs/evolve", designHandler.Evolve)
		v1.GET("/designs/current", designHandler.Current)

		structureHandler := handlers.NewStructureHandler(fetcher)
		v1.GET("/structures/:id", structureHandler.Get)

		profileHandler := handlers.NewProfileHandler(controller)
		v1.GET("/sequence/profile", profileHandler.GetProfile)
	}

	return router
}
