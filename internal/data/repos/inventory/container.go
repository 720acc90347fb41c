package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type ContainerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, container *types.Container) (*types.Container, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Container, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Container, error)
}

type containerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContainerRepo(db *gorm.DB, baseLog *logger.Logger) ContainerRepo {
	return &containerRepo{db: db, log: baseLog.With("repo", "ContainerRepo")}
}

func (r *containerRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *containerRepo) Create(ctx context.Context, tx *gorm.DB, container *types.Container) (*types.Container, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(container).Error; err != nil {
		return nil, err
	}
	return container, nil
}

func (r *containerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Container, error) {
	var container types.Container
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&container).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &container, nil
}

func (r *containerRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.Container, error) {
	var results []*types.Container
	if err := r.resolve(tx).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
