package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type VersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.RecipeVersion) (*types.RecipeVersion, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeVersion, error)
	ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.RecipeVersion, error)
	// GetActive resolves the version whose interval contains at; nil when
	// no interval matches. Non-overlap makes the result unambiguous.
	GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, at time.Time) (*types.RecipeVersion, error)
	// GetLatest is the version with the maximum valid_from, active or not.
	GetLatest(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.RecipeVersion, error)
	Save(ctx context.Context, tx *gorm.DB, version *types.RecipeVersion) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type versionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	return &versionRepo{db: db, log: baseLog.With("repo", "RecipeVersionRepo")}
}

func (r *versionRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *versionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.RecipeVersion) (*types.RecipeVersion, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (r *versionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeVersion, error) {
	var version types.RecipeVersion
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepo) ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.RecipeVersion, error) {
	var results []*types.RecipeVersion
	if err := r.resolve(tx).WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("valid_from ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *versionRepo) GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, at time.Time) (*types.RecipeVersion, error) {
	var version types.RecipeVersion
	err := r.resolve(tx).WithContext(ctx).
		Where("recipe_id = ? AND valid_from <= ? AND (valid_to IS NULL OR valid_to > ?)", recipeID, at, at).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepo) GetLatest(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.RecipeVersion, error) {
	var version types.RecipeVersion
	err := r.resolve(tx).WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("valid_from DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepo) Save(ctx context.Context, tx *gorm.DB, version *types.RecipeVersion) error {
	return r.resolve(tx).WithContext(ctx).Save(version).Error
}

func (r *versionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.resolve(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.RecipeVersion{}).Error
}
