package app

import (
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type Repos struct {
	Container         repos.ContainerRepo
	Tray              repos.TrayRepo
	Panel             repos.PanelRepo
	RFIDAssignment    repos.RFIDAssignmentRepo
	Crop              repos.CropRepo
	Snapshot          repos.SnapshotRepo
	RecipeMaster      repos.RecipeMasterRepo
	RecipeVersion     repos.RecipeVersionRepo
	RecipeApplication repos.RecipeApplicationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Container:         repos.NewContainerRepo(db, log),
		Tray:              repos.NewTrayRepo(db, log),
		Panel:             repos.NewPanelRepo(db, log),
		RFIDAssignment:    repos.NewRFIDAssignmentRepo(db, log),
		Crop:              repos.NewCropRepo(db, log),
		Snapshot:          repos.NewSnapshotRepo(db, log),
		RecipeMaster:      repos.NewRecipeMasterRepo(db, log),
		RecipeVersion:     repos.NewRecipeVersionRepo(db, log),
		RecipeApplication: repos.NewRecipeApplicationRepo(db, log),
	}
}
