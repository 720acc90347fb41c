package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// SnapshotQuery bounds a time-lapse read. Nil bounds are filled with the
// default window by the service, not here.
type SnapshotQuery struct {
	ContainerID uuid.UUID
	OccupantID  *uuid.UUID
	Start       time.Time
	End         time.Time
	Limit       int
}

type SnapshotRepo interface {
	CreateTray(ctx context.Context, tx *gorm.DB, snapshot *types.TraySnapshot) (*types.TraySnapshot, error)
	CreatePanel(ctx context.Context, tx *gorm.DB, snapshot *types.PanelSnapshot) (*types.PanelSnapshot, error)
	QueryTray(ctx context.Context, tx *gorm.DB, q SnapshotQuery) ([]*types.TraySnapshot, error)
	QueryPanel(ctx context.Context, tx *gorm.DB, q SnapshotQuery) ([]*types.PanelSnapshot, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "SnapshotRepo")}
}

func (r *snapshotRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *snapshotRepo) CreateTray(ctx context.Context, tx *gorm.DB, snapshot *types.TraySnapshot) (*types.TraySnapshot, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *snapshotRepo) CreatePanel(ctx context.Context, tx *gorm.DB, snapshot *types.PanelSnapshot) (*types.PanelSnapshot, error) {
	if err := r.resolve(tx).WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *snapshotRepo) applyWindow(q SnapshotQuery, stmt *gorm.DB) *gorm.DB {
	stmt = stmt.
		Where("container_id = ?", q.ContainerID).
		Where("captured_at >= ? AND captured_at <= ?", q.Start, q.End).
		Order("captured_at DESC")
	if q.OccupantID != nil {
		stmt = stmt.Where("occupant_id = ?", *q.OccupantID)
	}
	if q.Limit > 0 {
		stmt = stmt.Limit(q.Limit)
	}
	return stmt
}

func (r *snapshotRepo) QueryTray(ctx context.Context, tx *gorm.DB, q SnapshotQuery) ([]*types.TraySnapshot, error) {
	var results []*types.TraySnapshot
	if err := r.applyWindow(q, r.resolve(tx).WithContext(ctx)).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *snapshotRepo) QueryPanel(ctx context.Context, tx *gorm.DB, q SnapshotQuery) ([]*types.PanelSnapshot, error) {
	var results []*types.PanelSnapshot
	if err := r.applyWindow(q, r.resolve(tx).WithContext(ctx)).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
