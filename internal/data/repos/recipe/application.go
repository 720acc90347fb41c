package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, application *types.RecipeApplication) (*types.RecipeApplication, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeApplication, error)
	LatestByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) (*types.RecipeApplication, error)
	ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.RecipeApplication, error)
	CountByVersion(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, application *types.RecipeApplication) error
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "RecipeApplicationRepo")}
}

func (r *applicationRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, application *types.RecipeApplication) (*types.RecipeApplication, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeApplication, error) {
	var application types.RecipeApplication
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) LatestByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) (*types.RecipeApplication, error) {
	var application types.RecipeApplication
	err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("applied_at DESC").
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) ListByContainer(ctx context.Context, tx *gorm.DB, containerID uuid.UUID) ([]*types.RecipeApplication, error) {
	var results []*types.RecipeApplication
	if err := r.resolve(tx).WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("applied_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *applicationRepo) CountByVersion(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (int64, error) {
	var count int64
	if err := r.resolve(tx).WithContext(ctx).
		Model(&types.RecipeApplication{}).
		Where("recipe_version_id = ?", versionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *applicationRepo) Save(ctx context.Context, tx *gorm.DB, application *types.RecipeApplication) error {
	return r.resolve(tx).WithContext(ctx).Save(application).Error
}
