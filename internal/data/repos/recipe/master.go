package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type MasterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, master *types.RecipeMaster) (*types.RecipeMaster, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeMaster, error)
}

type masterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasterRepo(db *gorm.DB, baseLog *logger.Logger) MasterRepo {
	return &masterRepo{db: db, log: baseLog.With("repo", "RecipeMasterRepo")}
}

func (r *masterRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *masterRepo) Create(ctx context.Context, tx *gorm.DB, master *types.RecipeMaster) (*types.RecipeMaster, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(master).Error; err != nil {
		return nil, err
	}
	return master, nil
}

func (r *masterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RecipeMaster, error) {
	var master types.RecipeMaster
	err := r.resolve(tx).WithContext(ctx).Where("id = ?", id).First(&master).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &master, nil
}
