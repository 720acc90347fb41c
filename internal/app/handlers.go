package app

import (
	httpx "github.com/verdantstack/farmops-backend/internal/http"
	"github.com/verdantstack/farmops-backend/internal/http/handlers"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type Handlers struct {
	Inventory *handlers.InventoryHandler
	RFID      *handlers.RFIDHandler
	Snapshot  *handlers.SnapshotHandler
	Recipe    *handlers.RecipeHandler
	Health    *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Inventory: handlers.NewInventoryHandler(log, s.Placement, s.Utilization, r.Container),
		RFID:      handlers.NewRFIDHandler(log, s.RFID),
		Snapshot:  handlers.NewSnapshotHandler(log, s.Snapshot),
		Recipe:    handlers.NewRecipeHandler(log, s.Recipe, s.Application, r.RecipeMaster),
		Health:    handlers.NewHealthHandler(),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:          log,
		ExtraOrigins: cfg.FrontendOrigins,
		ServiceName:  cfg.ServiceName,

		InventoryHandler: h.Inventory,
		RFIDHandler:      h.RFID,
		SnapshotHandler:  h.Snapshot,
		RecipeHandler:    h.Recipe,
		HealthHandler:    h.Health,
	})
}
