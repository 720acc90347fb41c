package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	"github.com/verdantstack/farmops-backend/internal/data/repos/testutil"
)

// testEnv wires the full service stack against a rolled-back transaction,
// so every test sees the real schema (including the partial unique
// placement indexes) without leaking rows.
type testEnv struct {
	tx *gorm.DB

	grid         *SlotGrid
	rfid         RFIDService
	placement    PlacementService
	utilization  UtilizationService
	snapshots    SnapshotService
	recipes      RecipeService
	applications ApplicationService

	trayRepo  repos.TrayRepo
	panelRepo repos.PanelRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)

	containerRepo := repos.NewContainerRepo(tx, log)
	trayRepo := repos.NewTrayRepo(tx, log)
	panelRepo := repos.NewPanelRepo(tx, log)
	rfidRepo := repos.NewRFIDAssignmentRepo(tx, log)
	cropRepo := repos.NewCropRepo(tx, log)
	snapshotRepo := repos.NewSnapshotRepo(tx, log)
	masterRepo := repos.NewRecipeMasterRepo(tx, log)
	versionRepo := repos.NewRecipeVersionRepo(tx, log)
	applicationRepo := repos.NewRecipeApplicationRepo(tx, log)

	grid := NewSlotGrid(DefaultGridProfile())
	rfid := NewRFIDService(tx, log, rfidRepo, trayRepo, panelRepo)

	return &testEnv{
		tx:           tx,
		grid:         grid,
		rfid:         rfid,
		placement:    NewPlacementService(tx, log, grid, rfid, containerRepo, trayRepo, panelRepo, rfidRepo, nil),
		utilization:  NewUtilizationService(tx, log, grid, containerRepo, trayRepo, panelRepo, cropRepo),
		snapshots:    NewSnapshotService(tx, log, containerRepo, trayRepo, panelRepo, snapshotRepo, nil),
		recipes:      NewRecipeService(tx, log, masterRepo, versionRepo, applicationRepo, cropRepo),
		applications: NewApplicationService(tx, log, containerRepo, versionRepo, applicationRepo, nil),
		trayRepo:     trayRepo,
		panelRepo:    panelRepo,
	}
}
