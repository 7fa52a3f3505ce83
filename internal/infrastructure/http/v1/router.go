// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/closing"
	"assetbook/internal/domain/depreciation"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
	"assetbook/internal/domain/schedule"
	"assetbook/internal/infrastructure/http/v1/handlers"
	"assetbook/internal/infrastructure/http/v1/middleware"
	"assetbook/pkg/logger"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Logger   *logger.Logger
	Pool     *pgxpool.Pool
	Periods  *periods.Service
	Assets   *assets.Service
	Ledger   *ledger.Service
	Deprec   *depreciation.Service
	Closing  *closing.Service
	Schedule *schedule.Service

	// Development switches gin into debug mode.
	Development bool
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Trace(cfg.Logger),
		middleware.Logger(cfg.Logger),
		middleware.Recovery(),
		middleware.ErrorHandler(),
	)

	health := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	periodHandler := handlers.NewPeriodHandler(cfg.Periods)
	assetHandler := handlers.NewAssetHandler(cfg.Assets)
	movementHandler := handlers.NewMovementHandler(cfg.Ledger)
	closingHandler := handlers.NewClosingHandler(cfg.Closing, cfg.Deprec)
	scheduleHandler := handlers.NewScheduleHandler(cfg.Schedule)

	api := router.Group("/api/v1")
	{
		clients := api.Group("/clients/:clientID")
		{
			clients.POST("/periods", periodHandler.Create)
			clients.GET("/periods", periodHandler.List)
			clients.GET("/periods/current", periodHandler.Current)

			period := clients.Group("/periods/:periodID")
			{
				period.GET("/movements", movementHandler.ListByPeriod)
				period.GET("/balances", movementHandler.Balances)
				period.GET("/schedule", scheduleHandler.Get)
				period.POST("/recalculate", closingHandler.Recalculate)
				period.POST("/close", closingHandler.Close)
				period.POST("/close/preview", closingHandler.Preview)
			}

			clients.POST("/assets", assetHandler.Create)
			clients.GET("/assets", assetHandler.List)
			clients.POST("/categories", assetHandler.CreateCategory)
			clients.GET("/categories", assetHandler.ListCategories)
		}

		api.GET("/periods/:periodID", periodHandler.Get)
		api.GET("/periods/:periodID/planning", periodHandler.Planning)
		api.PUT("/periods/:periodID/planning/:sectionID", periodHandler.TogglePlanning)
		api.GET("/periods/:periodID/depreciation", closingHandler.Entries)

		api.GET("/assets/:assetID", assetHandler.Get)
		api.PATCH("/assets/:assetID", assetHandler.Update)
		api.GET("/assets/:assetID/movements", movementHandler.ListByAsset)

		api.POST("/movements", movementHandler.Post)
	}

	return router
}
