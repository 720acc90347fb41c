package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// CropRepo is read-only: crop rows are written by the grow-cycle
// tooling, this service only derives counts from them.
type CropRepo interface {
	// ListUntransplantedByContainer returns crops of the container, on
	// either occupant population, that still await transplanting. Overdue
	// counting is derived from these at read time.
	ListUntransplantedByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Crop, error)
	CountByRecipeVersion(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (int64, error)
}

type cropRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCropRepo(db *gorm.DB, baseLog *logger.Logger) CropRepo {
	return &cropRepo{db: db, log: baseLog.With("repo", "CropRepo")}
}

func (r *cropRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *cropRepo) ListUntransplantedByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Crop, error) {
	var fromTrays []*types.Crop
	if err := r.resolve(tx).WithContext(ctx).
		Joins("JOIN tray ON tray.id = crop.tray_id").
		Where("tray.container_id = ? AND crop.transplanted_at IS NULL", containerID).
		Find(&fromTrays).Error; err != nil {
		return nil, err
	}
	var fromPanels []*types.Crop
	if err := r.resolve(tx).WithContext(ctx).
		Joins("JOIN panel ON panel.id = crop.panel_id").
		Where("panel.container_id = ? AND crop.transplanted_at IS NULL", containerID).
		Find(&fromPanels).Error; err != nil {
		return nil, err
	}
	return append(fromTrays, fromPanels...), nil
}

func (r *cropRepo) CountByRecipeVersion(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.resolve(tx).WithContext(ctx).
		Model(&types.Crop{}).
		Where("recipe_version_id = ?", versionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
