package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type PanelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, panel *types.Panel) (*types.Panel, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Panel, error)
	GetByRFIDTag(ctx context.Context, tx *gorm.DB, tag string) (*types.Panel, error)
	GetAtSlot(ctx context.Context, tx *gorm.DB, containerID uuid.UUID, loc types.Location) (*types.Panel, error)
	ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error)
	ListPlaced(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error)
	ListOffShelf(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error)
	Save(ctx context.Context, tx *gorm.DB, panel *types.Panel) error
}

type panelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPanelRepo(db *gorm.DB, baseLog *logger.Logger) PanelRepo {
	return &panelRepo{db: db, log: baseLog.With("repo", "PanelRepo")}
}

func (r *panelRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *panelRepo) Create(ctx context.Context, tx *gorm.DB, panel *types.Panel) (*types.Panel, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(panel).Error; err != nil {
		return nil, err
	}
	return panel, nil
}

func (r *panelRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Panel, error) {
	var panel types.Panel
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&panel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) GetByRFIDTag(ctx context.Context, tx *gorm.DB, tag string) (*types.Panel, error) {
	var panel types.Panel
	err := r.resolve(tx).WithContext(ctx).Where("rfid_tag = ?", tag).First(&panel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) GetAtSlot(ctx context.Context, tx *gorm.DB, containerID uuid.UUID, loc types.Location) (*types.Panel, error) {
	var panel types.Panel
	err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind = ? AND slot_identifier = ? AND slot_number = ?",
			containerID, string(loc.Kind), loc.Identifier, loc.SlotNumber).
		First(&panel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error) {
	var results []*types.Panel
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("provisioned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *panelRepo) ListPlaced(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error) {
	var results []*types.Panel
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind IS NOT NULL", containerID).
		Order("slot_identifier ASC, slot_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *panelRepo) ListOffShelf(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Panel, error) {
	var results []*types.Panel
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind IS NULL AND status <> ?", containerID, types.OccupantStatusDisposed).
		Order("provisioned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *panelRepo) Save(ctx context.Context, tx *gorm.DB, panel *types.Panel) error {
	return r.resolve(tx).WithContext(ctx).Save(panel).Error
}
