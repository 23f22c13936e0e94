package handlers

import (
	"github.com/alimgiray/contribsync/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds the handlers and settings the HTTP surface is built from
type RouterConfig struct {
	APIToken string
	Health   *HealthHandler
	Runs     *RunHandler
	Sync     *SyncHandler
}

// NewRouter builds the gin engine with all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/health", cfg.Health.Health)

	router.GET("/runs", cfg.Runs.ListRuns)
	router.GET("/runs/:id", cfg.Runs.GetRun)
	router.GET("/runs/:id/export", cfg.Runs.ExportRun)
	router.GET("/repos/:owner/:repo/runs/latest", cfg.Runs.LatestRun)

	router.POST("/sync", middleware.TokenRequired(cfg.APIToken), cfg.Sync.TriggerSync)

	router.NoRoute(NewNotFoundHandler().NotFound)

	return router
}
