package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/events"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

type Services struct {
	Grid        *services.SlotGrid
	RFID        services.RFIDService
	Placement   services.PlacementService
	Utilization services.UtilizationService
	Snapshot    services.SnapshotService
	Recipe      services.RecipeService
	Application services.ApplicationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, bus events.Bus) (Services, error) {
	log.Info("Wiring services...")

	profile := services.DefaultGridProfile()
	if cfg.GridProfilePath != "" {
		loaded, err := services.LoadGridProfile(cfg.GridProfilePath)
		if err != nil {
			return Services{}, fmt.Errorf("load grid profile: %w", err)
		}
		profile = loaded
	}
	grid := services.NewSlotGrid(profile)

	rfid := services.NewRFIDService(db, log, r.RFIDAssignment, r.Tray, r.Panel)
	placement := services.NewPlacementService(db, log, grid, rfid, r.Container, r.Tray, r.Panel, r.RFIDAssignment, bus)
	utilization := services.NewUtilizationService(db, log, grid, r.Container, r.Tray, r.Panel, r.Crop)
	snapshot := services.NewSnapshotService(db, log, r.Container, r.Tray, r.Panel, r.Snapshot, bus)
	recipe := services.NewRecipeService(db, log, r.RecipeMaster, r.RecipeVersion, r.RecipeApplication, r.Crop)
	application := services.NewApplicationService(db, log, r.Container, r.RecipeVersion, r.RecipeApplication, bus)

	return Services{
		Grid:        grid,
		RFID:        rfid,
		Placement:   placement,
		Utilization: utilization,
		Snapshot:    snapshot,
		Recipe:      recipe,
		Application: application,
	}, nil
}
