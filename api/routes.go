package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/ieeg-clips/api/datasets"
	"github.com/killallgit/ieeg-clips/api/health"
	"github.com/killallgit/ieeg-clips/api/jobstatus"
	"github.com/killallgit/ieeg-clips/api/types"
	"github.com/killallgit/ieeg-clips/api/version"
	_ "github.com/killallgit/ieeg-clips/docs/swagger"
	annotationsService "github.com/killallgit/ieeg-clips/internal/services/annotations"
	clipsService "github.com/killallgit/ieeg-clips/internal/services/clips"
	jobsService "github.com/killallgit/ieeg-clips/internal/services/jobs"
	recordingsService "github.com/killallgit/ieeg-clips/internal/services/recordings"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rateLimitRPS, rateLimitBurst int) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	if deps == nil {
		deps = &types.Dependencies{}
	}

	// API v1 routes
	v1 := engine.Group("/api/v1")

	if deps.DB == nil || deps.DB.DB == nil {
		return fmt.Errorf("database is not configured")
	}

	initializeServices(deps)

	// Dataset and job routes share the configured per-client limit
	datasetGroup := v1.Group("/datasets")
	datasetGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rateLimitRPS, rateLimitBurst))
	datasets.RegisterRoutes(datasetGroup, deps)

	jobGroup := v1.Group("/jobs")
	jobGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, rateLimitRPS, rateLimitBurst))
	jobstatus.RegisterRoutes(jobGroup, deps)

	return nil
}

// initializeServices fills in any services not already configured
func initializeServices(deps *types.Dependencies) {
	if deps.RecordingService == nil {
		deps.RecordingService = recordingsService.NewService(recordingsService.NewRepository(deps.DB.DB))
	}
	if deps.AnnotationService == nil {
		deps.AnnotationService = annotationsService.NewService(annotationsService.NewRepository(deps.DB.DB))
	}
	if deps.ClipService == nil {
		deps.ClipService = clipsService.NewService(clipsService.NewRepository(deps.DB.DB))
	}
	if deps.JobService == nil {
		deps.JobService = jobsService.NewService(jobsService.NewRepository(deps.DB.DB))
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
