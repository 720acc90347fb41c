package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/events"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// defaultSnapshotWindow centers the time-lapse view on the present when
// the caller gives no bounds: two weeks back, two weeks forward.
const defaultSnapshotWindow = 14 * 24 * time.Hour

const defaultSnapshotLimit = 500

// SnapshotWindow is the caller-facing query; nil bounds get the default
// window, a single bound is respected as given.
type SnapshotWindow struct {
	OccupantID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Limit      int
}

func (w SnapshotWindow) resolve(containerID uuid.UUID, now time.Time) repos.SnapshotQuery {
	q := repos.SnapshotQuery{
		ContainerID: containerID,
		OccupantID:  w.OccupantID,
		Limit:       w.Limit,
	}
	if q.Limit <= 0 {
		q.Limit = defaultSnapshotLimit
	}
	switch {
	case w.Start == nil && w.End == nil:
		q.Start = now.Add(-defaultSnapshotWindow)
		q.End = now.Add(defaultSnapshotWindow)
	case w.Start == nil:
		q.Start = w.End.Add(-2 * defaultSnapshotWindow)
		q.End = *w.End
	case w.End == nil:
		q.Start = *w.Start
		q.End = w.Start.Add(2 * defaultSnapshotWindow)
	default:
		q.Start = *w.Start
		q.End = *w.End
	}
	return q
}

// SnapshotService captures immutable copies of occupant state and serves
// them newest-first for time-lapse playback. Cadence is the caller's
// concern; nothing here schedules captures.
type SnapshotService interface {
	RecordTray(ctx context.Context, trayID uuid.UUID) (*types.TraySnapshot, error)
	RecordPanel(ctx context.Context, panelID uuid.UUID) (*types.PanelSnapshot, error)
	// RecordContainer captures every non-disposed occupant of the kind in
	// one transaction, for scheduled bulk capture.
	RecordContainer(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (int, error)
	QueryTrays(ctx context.Context, containerID uuid.UUID, window SnapshotWindow) ([]*types.TraySnapshot, error)
	QueryPanels(ctx context.Context, containerID uuid.UUID, window SnapshotWindow) ([]*types.PanelSnapshot, error)
}

type snapshotService struct {
	db            *gorm.DB
	log           *logger.Logger
	containerRepo repos.ContainerRepo
	trayRepo      repos.TrayRepo
	panelRepo     repos.PanelRepo
	snapshotRepo  repos.SnapshotRepo
	bus           events.Bus
}

func NewSnapshotService(
	db *gorm.DB,
	baseLog *logger.Logger,
	containerRepo repos.ContainerRepo,
	trayRepo repos.TrayRepo,
	panelRepo repos.PanelRepo,
	snapshotRepo repos.SnapshotRepo,
	bus events.Bus,
) SnapshotService {
	return &snapshotService{
		db:            db,
		log:           baseLog.With("service", "SnapshotService"),
		containerRepo: containerRepo,
		trayRepo:      trayRepo,
		panelRepo:     panelRepo,
		snapshotRepo:  snapshotRepo,
		bus:           bus,
	}
}

func (s *snapshotService) requireContainer(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	container, err := s.containerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if container == nil {
		return apierr.NotFound("container_not_found", "container %s not found", id)
	}
	return nil
}

func snapshotCore(core *types.OccupantCore, at time.Time) types.SnapshotCore {
	return types.SnapshotCore{
		ID:             uuid.New(),
		ContainerID:    core.ContainerID,
		OccupantID:     core.ID,
		RFIDTag:        core.RFIDTag,
		SlotKind:       core.SlotKind,
		SlotIdentifier: core.SlotIdentifier,
		SlotNumber:     core.SlotNumber,
		CropCount:      core.CropCount,
		UtilizationPct: core.UtilizationPct(),
		Status:         core.Status,
		CapturedAt:     at,
	}
}

func (s *snapshotService) RecordTray(ctx context.Context, trayID uuid.UUID) (*types.TraySnapshot, error) {
	tray, err := s.trayRepo.GetByID(ctx, nil, trayID)
	if err != nil {
		return nil, err
	}
	if tray == nil {
		return nil, apierr.NotFound("tray_not_found", "tray %s not found", trayID)
	}
	snapshot := &types.TraySnapshot{SnapshotCore: snapshotCore(tray.Core(), time.Now().UTC())}
	if _, err := s.snapshotRepo.CreateTray(ctx, nil, snapshot); err != nil {
		return nil, err
	}
	s.publish(ctx, snapshot.ContainerID, snapshot.OccupantID)
	return snapshot, nil
}

func (s *snapshotService) RecordPanel(ctx context.Context, panelID uuid.UUID) (*types.PanelSnapshot, error) {
	panel, err := s.panelRepo.GetByID(ctx, nil, panelID)
	if err != nil {
		return nil, err
	}
	if panel == nil {
		return nil, apierr.NotFound("panel_not_found", "panel %s not found", panelID)
	}
	snapshot := &types.PanelSnapshot{SnapshotCore: snapshotCore(panel.Core(), time.Now().UTC())}
	if _, err := s.snapshotRepo.CreatePanel(ctx, nil, snapshot); err != nil {
		return nil, err
	}
	s.publish(ctx, snapshot.ContainerID, snapshot.OccupantID)
	return snapshot, nil
}

func (s *snapshotService) RecordContainer(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (int, error) {
	at := time.Now().UTC()
	count := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireContainer(ctx, tx, containerID); err != nil {
			return err
		}
		if kind == types.OccupantKindPanel {
			panels, err := s.panelRepo.ListByContainer(ctx, tx, containerID)
			if err != nil {
				return err
			}
			for _, p := range panels {
				if p.Status == types.OccupantStatusDisposed {
					continue
				}
				snapshot := &types.PanelSnapshot{SnapshotCore: snapshotCore(p.Core(), at)}
				if _, err := s.snapshotRepo.CreatePanel(ctx, tx, snapshot); err != nil {
					return err
				}
				count++
			}
			return nil
		}
		trays, err := s.trayRepo.ListByContainer(ctx, tx, containerID)
		if err != nil {
			return err
		}
		for _, t := range trays {
			if t.Status == types.OccupantStatusDisposed {
				continue
			}
			snapshot := &types.TraySnapshot{SnapshotCore: snapshotCore(t.Core(), at)}
			if _, err := s.snapshotRepo.CreateTray(ctx, tx, snapshot); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *snapshotService) QueryTrays(ctx context.Context, containerID uuid.UUID, window SnapshotWindow) ([]*types.TraySnapshot, error) {
	if err := s.requireContainer(ctx, nil, containerID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.QueryTray(ctx, nil, window.resolve(containerID, time.Now().UTC()))
}

func (s *snapshotService) QueryPanels(ctx context.Context, containerID uuid.UUID, window SnapshotWindow) ([]*types.PanelSnapshot, error) {
	if err := s.requireContainer(ctx, nil, containerID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.QueryPanel(ctx, nil, window.resolve(containerID, time.Now().UTC()))
}

func (s *snapshotService) publish(ctx context.Context, containerID, occupantID uuid.UUID) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.Event{
		Type:        events.TypeSnapshotRecorded,
		ContainerID: containerID,
		SubjectID:   occupantID,
	}); err != nil {
		s.log.Warn("event publish failed", "error", err, "event_type", events.TypeSnapshotRecorded)
	}
}
