package inventory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// RFIDAssignmentRepo owns the cross-population tag registry. Inserting an
// already-registered tag fails with gorm.ErrDuplicatedKey, which is the
// storage-level guard against two concurrent provisions of one tag.
type RFIDAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.RFIDAssignment) error
	GetByTag(ctx context.Context, tx *gorm.DB, tag string) (*types.RFIDAssignment, error)
	DeleteByTag(ctx context.Context, tx *gorm.DB, tag string) error
}

type rfidAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRFIDAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) RFIDAssignmentRepo {
	return &rfidAssignmentRepo{db: db, log: baseLog.With("repo", "RFIDAssignmentRepo")}
}

func (r *rfidAssignmentRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *rfidAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.RFIDAssignment) error {
	return r.resolve(tx).WithContext(ctx).Create(assignment).Error
}

func (r *rfidAssignmentRepo) GetByTag(ctx context.Context, tx *gorm.DB, tag string) (*types.RFIDAssignment, error) {
	var assignment types.RFIDAssignment
	err := r.resolve(tx).WithContext(ctx).Where("tag = ?", tag).First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *rfidAssignmentRepo) DeleteByTag(ctx context.Context, tx *gorm.DB, tag string) error {
	return r.resolve(tx).WithContext(ctx).
		Where("tag = ?", tag).
		Delete(&types.RFIDAssignment{}).Error
}
