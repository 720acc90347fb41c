package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type TrayRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tray *types.Tray) (*types.Tray, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tray, error)
	GetByRFIDTag(ctx context.Context, tx *gorm.DB, tag string) (*types.Tray, error)
	GetAtSlot(ctx context.Context, tx *gorm.DB, containerID uuid.UUID, loc types.Location) (*types.Tray, error)
	ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error)
	ListPlaced(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error)
	ListOffShelf(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error)
	Save(ctx context.Context, tx *gorm.DB, tray *types.Tray) error
}

type trayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrayRepo(db *gorm.DB, baseLog *logger.Logger) TrayRepo {
	return &trayRepo{db: db, log: baseLog.With("repo", "TrayRepo")}
}

func (r *trayRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *trayRepo) Create(ctx context.Context, tx *gorm.DB, tray *types.Tray) (*types.Tray, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(tray).Error; err != nil {
		return nil, err
	}
	return tray, nil
}

func (r *trayRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tray, error) {
	var tray types.Tray
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&tray).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tray, nil
}

func (r *trayRepo) GetByRFIDTag(ctx context.Context, tx *gorm.DB, tag string) (*types.Tray, error) {
	var tray types.Tray
	err := r.resolve(tx).WithContext(ctx).Where("rfid_tag = ?", tag).First(&tray).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tray, nil
}

func (r *trayRepo) GetAtSlot(ctx context.Context, tx *gorm.DB, containerID uuid.UUID, loc types.Location) (*types.Tray, error) {
	var tray types.Tray
	err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind = ? AND slot_identifier = ? AND slot_number = ?",
			containerID, string(loc.Kind), loc.Identifier, loc.SlotNumber).
		First(&tray).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tray, nil
}

func (r *trayRepo) ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error) {
	var results []*types.Tray
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("provisioned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trayRepo) ListPlaced(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error) {
	var results []*types.Tray
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind IS NOT NULL", containerID).
		Order("slot_identifier ASC, slot_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trayRepo) ListOffShelf(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.Tray, error) {
	var results []*types.Tray
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ? AND slot_kind IS NULL AND status <> ?", containerID, types.OccupantStatusDisposed).
		Order("provisioned_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trayRepo) Save(ctx context.Context, tx *gorm.DB, tray *types.Tray) error {
	return r.resolve(tx).WithContext(ctx).Save(tray).Error
}
