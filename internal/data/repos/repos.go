package repos

import (
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos/inventory"
	"github.com/verdantstack/farmops-backend/internal/data/repos/recipe"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type ContainerRepo = inventory.ContainerRepo
type TrayRepo = inventory.TrayRepo
type PanelRepo = inventory.PanelRepo
type RFIDAssignmentRepo = inventory.RFIDAssignmentRepo
type CropRepo = inventory.CropRepo
type SnapshotRepo = inventory.SnapshotRepo
type SnapshotQuery = inventory.SnapshotQuery

type RecipeMasterRepo = recipe.MasterRepo
type RecipeVersionRepo = recipe.VersionRepo
type RecipeApplicationRepo = recipe.ApplicationRepo

func NewContainerRepo(db *gorm.DB, baseLog *logger.Logger) ContainerRepo {
	return inventory.NewContainerRepo(db, baseLog)
}
func NewTrayRepo(db *gorm.DB, baseLog *logger.Logger) TrayRepo {
	return inventory.NewTrayRepo(db, baseLog)
}
func NewPanelRepo(db *gorm.DB, baseLog *logger.Logger) PanelRepo {
	return inventory.NewPanelRepo(db, baseLog)
}
func NewRFIDAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) RFIDAssignmentRepo {
	return inventory.NewRFIDAssignmentRepo(db, baseLog)
}
func NewCropRepo(db *gorm.DB, baseLog *logger.Logger) CropRepo {
	return inventory.NewCropRepo(db, baseLog)
}
func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return inventory.NewSnapshotRepo(db, baseLog)
}

func NewRecipeMasterRepo(db *gorm.DB, baseLog *logger.Logger) RecipeMasterRepo {
	return recipe.NewMasterRepo(db, baseLog)
}
func NewRecipeVersionRepo(db *gorm.DB, baseLog *logger.Logger) RecipeVersionRepo {
	return recipe.NewVersionRepo(db, baseLog)
}
func NewRecipeApplicationRepo(db *gorm.DB, baseLog *logger.Logger) RecipeApplicationRepo {
	return recipe.NewApplicationRepo(db, baseLog)
}
