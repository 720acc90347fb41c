package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/verdantstack/farmops-backend/internal/http/handlers"
	httpMW "github.com/verdantstack/farmops-backend/internal/http/middleware"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log          *logger.Logger
	ExtraOrigins string
	ServiceName  string

	InventoryHandler *httpH.InventoryHandler
	RFIDHandler      *httpH.RFIDHandler
	SnapshotHandler  *httpH.SnapshotHandler
	RecipeHandler    *httpH.RecipeHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "farmops-backend"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.ExtraOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Containers
		if cfg.InventoryHandler != nil {
			api.POST("/containers", cfg.InventoryHandler.CreateContainer)
			api.GET("/containers", cfg.InventoryHandler.ListContainers)
			api.GET("/containers/:id", cfg.InventoryHandler.GetContainer)

			api.POST("/containers/:id/trays/provision", cfg.InventoryHandler.ProvisionTray)
			api.POST("/containers/:id/panels/provision", cfg.InventoryHandler.ProvisionPanel)

			api.GET("/containers/:id/inventory/nursery-station", cfg.InventoryHandler.NurseryStation)
			api.GET("/containers/:id/inventory/cultivation-area", cfg.InventoryHandler.CultivationArea)
			api.GET("/containers/:id/nursery-station/available-slots", cfg.InventoryHandler.NurseryAvailableSlots)
			api.GET("/containers/:id/cultivation-area/available-slots", cfg.InventoryHandler.CultivationAvailableSlots)

			api.PUT("/trays/:id/location", cfg.InventoryHandler.MoveTray)
			api.PUT("/panels/:id/location", cfg.InventoryHandler.MovePanel)
			api.POST("/trays/:id/release", cfg.InventoryHandler.ReleaseTray)
			api.POST("/panels/:id/release", cfg.InventoryHandler.ReleasePanel)
			api.POST("/trays/:id/dispose", cfg.InventoryHandler.DisposeTray)
			api.POST("/panels/:id/dispose", cfg.InventoryHandler.DisposePanel)
		}

		// RFID
		if cfg.RFIDHandler != nil {
			api.POST("/rfid/validate", cfg.RFIDHandler.Validate)
			api.GET("/rfid/:tag/availability", cfg.RFIDHandler.Availability)
		}

		// Snapshots (time-lapse)
		if cfg.SnapshotHandler != nil {
			api.GET("/containers/:id/tray-snapshots", cfg.SnapshotHandler.ListTraySnapshots)
			api.POST("/containers/:id/tray-snapshots", cfg.SnapshotHandler.RecordTraySnapshots)
			api.GET("/containers/:id/panel-snapshots", cfg.SnapshotHandler.ListPanelSnapshots)
			api.POST("/containers/:id/panel-snapshots", cfg.SnapshotHandler.RecordPanelSnapshots)
		}

		// Recipes
		if cfg.RecipeHandler != nil {
			api.POST("/recipes", cfg.RecipeHandler.CreateRecipe)
			api.GET("/recipes/:id", cfg.RecipeHandler.GetRecipe)
			api.POST("/recipes/:id/versions", cfg.RecipeHandler.AddVersion)
			api.GET("/recipes/:id/versions", cfg.RecipeHandler.ListVersions)
			api.GET("/recipes/:id/versions/active", cfg.RecipeHandler.ActiveVersion)
			api.GET("/recipes/:id/versions/latest", cfg.RecipeHandler.LatestVersion)
			api.PUT("/recipe-versions/:id", cfg.RecipeHandler.UpdateVersion)
			api.DELETE("/recipe-versions/:id", cfg.RecipeHandler.DeleteVersion)

			api.POST("/containers/:id/recipe-applications", cfg.RecipeHandler.ApplyRecipe)
			api.GET("/containers/:id/recipe-applications", cfg.RecipeHandler.ListApplications)
			api.GET("/containers/:id/recipe-applications/latest", cfg.RecipeHandler.LatestApplication)
			api.PUT("/recipe-applications/:id/sync-status", cfg.RecipeHandler.UpdateSyncStatus)
		}
	}

	return r
}
