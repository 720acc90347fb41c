package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/events"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type ProvisionInput struct {
	ContainerID   uuid.UUID
	Kind          types.OccupantKind
	RFIDTag       string
	Location      *types.Location
	Capacity      int
	ProvisionedBy string
}

// SlotView pairs a grid slot with whatever sits in it.
type SlotView struct {
	Location types.Location `json:"location"`
	Occupied bool           `json:"occupied"`
	Occupant interface{}    `json:"occupant,omitempty"`
}

// StationLayout is the full grid of a station plus its off-shelf queue.
type StationLayout struct {
	Kind     types.OccupantKind `json:"kind"`
	Slots    []SlotView         `json:"slots"`
	OffShelf []interface{}      `json:"off_shelf"`
}

// PlacementService owns the occupant state machine
// (Unprovisioned -> Off-shelf <-> Placed -> Disposed) and the invariant
// that a slot holds at most one live occupant.
type PlacementService interface {
	Provision(ctx context.Context, in ProvisionInput) (types.Occupant, error)
	Move(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, target types.Location, movedBy string) (types.Occupant, error)
	Release(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, releasedBy string) (types.Occupant, error)
	Dispose(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, disposedBy string) (types.Occupant, error)
	AvailableSlots(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]types.Location, error)
	OffShelf(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]types.Occupant, error)
	Layout(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (*StationLayout, error)
}

type placementService struct {
	db            *gorm.DB
	log           *logger.Logger
	grid          *SlotGrid
	rfid          RFIDService
	containerRepo repos.ContainerRepo
	trayRepo      repos.TrayRepo
	panelRepo     repos.PanelRepo
	rfidRepo      repos.RFIDAssignmentRepo
	bus           events.Bus
}

func NewPlacementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	grid *SlotGrid,
	rfid RFIDService,
	containerRepo repos.ContainerRepo,
	trayRepo repos.TrayRepo,
	panelRepo repos.PanelRepo,
	rfidRepo repos.RFIDAssignmentRepo,
	bus events.Bus,
) PlacementService {
	return &placementService{
		db:            db,
		log:           baseLog.With("service", "PlacementService"),
		grid:          grid,
		rfid:          rfid,
		containerRepo: containerRepo,
		trayRepo:      trayRepo,
		panelRepo:     panelRepo,
		rfidRepo:      rfidRepo,
		bus:           bus,
	}
}

// requireContainer rejects reads and writes against container ids that
// do not exist, instead of answering with an empty grid.
func (s *placementService) requireContainer(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	container, err := s.containerRepo.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if container == nil {
		return apierr.NotFound("container_not_found", "container %s not found", id)
	}
	return nil
}

// getOccupant loads a tray or panel behind the shared Occupant view.
func (s *placementService) getOccupant(ctx context.Context, tx *gorm.DB, kind types.OccupantKind, id uuid.UUID) (types.Occupant, error) {
	switch kind {
	case types.OccupantKindTray:
		tray, err := s.trayRepo.GetByID(ctx, tx, id)
		if err != nil || tray == nil {
			return nil, err
		}
		return tray, nil
	case types.OccupantKindPanel:
		panel, err := s.panelRepo.GetByID(ctx, tx, id)
		if err != nil || panel == nil {
			return nil, err
		}
		return panel, nil
	}
	return nil, apierr.Validation("invalid_occupant_kind", "unknown occupant kind %q", kind)
}

func (s *placementService) occupantAtSlot(ctx context.Context, tx *gorm.DB, kind types.OccupantKind, containerID uuid.UUID, loc types.Location) (types.Occupant, error) {
	switch kind {
	case types.OccupantKindTray:
		tray, err := s.trayRepo.GetAtSlot(ctx, tx, containerID, loc)
		if err != nil || tray == nil {
			return nil, err
		}
		return tray, nil
	default:
		panel, err := s.panelRepo.GetAtSlot(ctx, tx, containerID, loc)
		if err != nil || panel == nil {
			return nil, err
		}
		return panel, nil
	}
}

func (s *placementService) saveOccupant(ctx context.Context, tx *gorm.DB, occ types.Occupant) error {
	switch o := occ.(type) {
	case *types.Tray:
		return s.trayRepo.Save(ctx, tx, o)
	case *types.Panel:
		return s.panelRepo.Save(ctx, tx, o)
	}
	return apierr.Validation("invalid_occupant_kind", "unknown occupant type")
}

// checkSlot validates the address and confirms the slot kind matches the
// occupant population: trays go on shelves, panels on walls.
func (s *placementService) checkSlot(kind types.OccupantKind, loc types.Location) error {
	if err := s.grid.ValidSlot(loc); err != nil {
		return err
	}
	if loc.Kind != types.SlotKindFor(kind) {
		return apierr.Validation("wrong_slot_kind", "%ss cannot be placed on a %s", kind, loc.Kind)
	}
	return nil
}

func (s *placementService) Provision(ctx context.Context, in ProvisionInput) (types.Occupant, error) {
	tag := NormalizeRFIDTag(in.RFIDTag)
	if !s.rfid.ValidateFormat(tag) {
		return nil, apierr.Validation("invalid_rfid_format", "RFID tag %q does not match the expected format", in.RFIDTag)
	}
	if in.Capacity <= 0 {
		return nil, apierr.Validation("invalid_capacity", "capacity must be positive, got %d", in.Capacity)
	}
	if in.Location != nil {
		if err := s.checkSlot(in.Kind, *in.Location); err != nil {
			return nil, err
		}
	}

	var created types.Occupant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireContainer(ctx, tx, in.ContainerID); err != nil {
			return err
		}

		if in.Location != nil {
			blocking, err := s.occupantAtSlot(ctx, tx, in.Kind, in.ContainerID, *in.Location)
			if err != nil {
				return err
			}
			if blocking != nil {
				return apierr.Conflict("slot_occupied", "slot %s is held by %s %s", in.Location, in.Kind, blocking.Core().ID)
			}
		}

		now := time.Now().UTC()
		core := types.OccupantCore{
			ID:            uuid.New(),
			ContainerID:   in.ContainerID,
			RFIDTag:       &tag,
			Capacity:      in.Capacity,
			Status:        types.OccupantStatusAvailable,
			ProvisionedAt: now,
		}
		if in.Location != nil {
			core.SetLocation(*in.Location, in.ProvisionedBy, now)
			core.Status = types.OccupantStatusInUse
		}

		// Registry insert first: a duplicate tag dies here on the primary
		// key before any occupant row exists, so no partial record survives
		// a losing race.
		assignErr := s.rfidRepo.Create(ctx, tx, &types.RFIDAssignment{
			Tag:          tag,
			OccupantKind: in.Kind,
			OccupantID:   core.ID,
			ContainerID:  in.ContainerID,
			AssignedAt:   now,
		})
		if errors.Is(assignErr, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("duplicate_rfid", "RFID tag %s is already assigned", tag)
		}
		if assignErr != nil {
			return assignErr
		}

		switch in.Kind {
		case types.OccupantKindTray:
			tray := &types.Tray{OccupantCore: core}
			if _, err := s.trayRepo.Create(ctx, tx, tray); err != nil {
				return translatePlacementErr(err, in.Location)
			}
			created = tray
		case types.OccupantKindPanel:
			panel := &types.Panel{OccupantCore: core}
			if _, err := s.panelRepo.Create(ctx, tx, panel); err != nil {
				return translatePlacementErr(err, in.Location)
			}
			created = panel
		default:
			return apierr.Validation("invalid_occupant_kind", "unknown occupant kind %q", in.Kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOccupantProvisioned, created)
	return created, nil
}

func (s *placementService) Move(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, target types.Location, movedBy string) (types.Occupant, error) {
	if err := s.checkSlot(kind, target); err != nil {
		return nil, err
	}

	var moved types.Occupant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occ, err := s.getOccupant(ctx, tx, kind, occupantID)
		if err != nil {
			return err
		}
		if occ == nil {
			return apierr.NotFound("occupant_not_found", "%s %s not found", kind, occupantID)
		}
		core := occ.Core()
		if core.Status == types.OccupantStatusDisposed {
			return apierr.BusinessLogic("occupant_disposed", "%s %s is disposed and cannot be moved", kind, occupantID)
		}

		blocking, err := s.occupantAtSlot(ctx, tx, kind, core.ContainerID, target)
		if err != nil {
			return err
		}
		if blocking != nil {
			if blocking.Core().ID == core.ID {
				moved = occ // already there
				return nil
			}
			return apierr.Conflict("slot_occupied", "slot %s is held by %s %s", target, kind, blocking.Core().ID)
		}

		// Single UPDATE swaps the column triple, so readers never observe
		// the occupant bound to two slots; the partial unique index backs
		// this up against a concurrent writer.
		core.SetLocation(target, movedBy, time.Now().UTC())
		if core.Status == types.OccupantStatusAvailable {
			core.Status = types.OccupantStatusInUse
		}
		if err := s.saveOccupant(ctx, tx, occ); err != nil {
			return translatePlacementErr(err, &target)
		}
		moved = occ
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOccupantMoved, moved)
	return moved, nil
}

func (s *placementService) Release(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, releasedBy string) (types.Occupant, error) {
	var released types.Occupant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occ, err := s.getOccupant(ctx, tx, kind, occupantID)
		if err != nil {
			return err
		}
		if occ == nil {
			return apierr.NotFound("occupant_not_found", "%s %s not found", kind, occupantID)
		}
		core := occ.Core()
		if core.Status == types.OccupantStatusDisposed {
			return apierr.BusinessLogic("occupant_disposed", "%s %s is disposed and cannot be released", kind, occupantID)
		}

		core.ClearLocation(releasedBy, time.Now().UTC())
		core.Status = types.OccupantStatusAvailable
		if err := s.saveOccupant(ctx, tx, occ); err != nil {
			return err
		}
		released = occ
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOccupantReleased, released)
	return released, nil
}

// Dispose is terminal: the slot is freed and the tag registry row removed
// so the tag becomes reusable. The occupant row keeps its history.
func (s *placementService) Dispose(ctx context.Context, kind types.OccupantKind, occupantID uuid.UUID, disposedBy string) (types.Occupant, error) {
	var disposed types.Occupant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		occ, err := s.getOccupant(ctx, tx, kind, occupantID)
		if err != nil {
			return err
		}
		if occ == nil {
			return apierr.NotFound("occupant_not_found", "%s %s not found", kind, occupantID)
		}
		core := occ.Core()
		if core.Status == types.OccupantStatusDisposed {
			return apierr.BusinessLogic("occupant_disposed", "%s %s is already disposed", kind, occupantID)
		}

		if core.RFIDTag != nil {
			if err := s.rfidRepo.DeleteByTag(ctx, tx, *core.RFIDTag); err != nil {
				return err
			}
		}
		core.RFIDTag = nil
		core.ClearLocation(disposedBy, time.Now().UTC())
		core.Status = types.OccupantStatusDisposed
		if err := s.saveOccupant(ctx, tx, occ); err != nil {
			return err
		}
		disposed = occ
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeOccupantDisposed, disposed)
	return disposed, nil
}

func (s *placementService) AvailableSlots(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]types.Location, error) {
	if err := s.requireContainer(ctx, nil, containerID); err != nil {
		return nil, err
	}
	placed, err := s.placedLocations(ctx, containerID, kind)
	if err != nil {
		return nil, err
	}
	available := []types.Location{}
	for _, slot := range s.grid.EnumerateSlots(types.SlotKindFor(kind)) {
		if _, taken := placed[slot]; !taken {
			available = append(available, slot)
		}
	}
	return available, nil
}

func (s *placementService) OffShelf(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]types.Occupant, error) {
	if err := s.requireContainer(ctx, nil, containerID); err != nil {
		return nil, err
	}
	return s.listOffShelf(ctx, containerID, kind)
}

func (s *placementService) listOffShelf(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]types.Occupant, error) {
	var out []types.Occupant
	switch kind {
	case types.OccupantKindTray:
		trays, err := s.trayRepo.ListOffShelf(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, t := range trays {
			out = append(out, t)
		}
	case types.OccupantKindPanel:
		panels, err := s.panelRepo.ListOffShelf(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, p := range panels {
			out = append(out, p)
		}
	default:
		return nil, apierr.Validation("invalid_occupant_kind", "unknown occupant kind %q", kind)
	}
	return out, nil
}

func (s *placementService) Layout(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (*StationLayout, error) {
	if err := s.requireContainer(ctx, nil, containerID); err != nil {
		return nil, err
	}
	placedByLoc := map[types.Location]types.Occupant{}
	switch kind {
	case types.OccupantKindTray:
		trays, err := s.trayRepo.ListPlaced(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, t := range trays {
			if loc := t.Location(); loc != nil {
				placedByLoc[*loc] = t
			}
		}
	case types.OccupantKindPanel:
		panels, err := s.panelRepo.ListPlaced(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, p := range panels {
			if loc := p.Location(); loc != nil {
				placedByLoc[*loc] = p
			}
		}
	default:
		return nil, apierr.Validation("invalid_occupant_kind", "unknown occupant kind %q", kind)
	}

	layout := &StationLayout{Kind: kind, OffShelf: []interface{}{}}
	for _, slot := range s.grid.EnumerateSlots(types.SlotKindFor(kind)) {
		view := SlotView{Location: slot}
		if occ, ok := placedByLoc[slot]; ok {
			view.Occupied = true
			view.Occupant = occ
		}
		layout.Slots = append(layout.Slots, view)
	}

	offShelf, err := s.listOffShelf(ctx, containerID, kind)
	if err != nil {
		return nil, err
	}
	for _, occ := range offShelf {
		layout.OffShelf = append(layout.OffShelf, occ)
	}
	return layout, nil
}

func (s *placementService) placedLocations(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (map[types.Location]struct{}, error) {
	placed := map[types.Location]struct{}{}
	switch kind {
	case types.OccupantKindTray:
		trays, err := s.trayRepo.ListPlaced(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, t := range trays {
			if loc := t.Location(); loc != nil {
				placed[*loc] = struct{}{}
			}
		}
	case types.OccupantKindPanel:
		panels, err := s.panelRepo.ListPlaced(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, p := range panels {
			if loc := p.Location(); loc != nil {
				placed[*loc] = struct{}{}
			}
		}
	default:
		return nil, apierr.Validation("invalid_occupant_kind", "unknown occupant kind %q", kind)
	}
	return placed, nil
}

func (s *placementService) publish(ctx context.Context, eventType string, occ types.Occupant) {
	if s.bus == nil || occ == nil {
		return
	}
	core := occ.Core()
	payload := map[string]interface{}{"kind": occ.Kind(), "status": core.Status}
	if loc := core.Location(); loc != nil {
		payload["location"] = loc
	}
	if err := s.bus.Publish(ctx, events.Event{
		Type:        eventType,
		ContainerID: core.ContainerID,
		SubjectID:   core.ID,
		Payload:     payload,
	}); err != nil {
		s.log.Warn("event publish failed", "error", err, "event_type", eventType)
	}
}

// translatePlacementErr maps a unique-index violation on the slot columns
// to the Conflict the API promises when two writers race for one slot.
func translatePlacementErr(err error, loc *types.Location) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if loc != nil {
			return apierr.Conflict("slot_occupied", "slot %s was claimed concurrently", loc)
		}
		return apierr.Conflict("duplicate_rfid", "RFID tag was claimed concurrently")
	}
	return err
}
