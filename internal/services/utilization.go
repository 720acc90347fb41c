package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// StationSummary is the dashboard aggregate for one station of a
// container. OverdueCrops is derived from "now" at query time.
type StationSummary struct {
	TotalSlots     int       `json:"total_slots"`
	OccupiedSlots  int       `json:"occupied_slots"`
	TotalOccupants int       `json:"total_occupants"`
	OffShelfCount  int       `json:"off_shelf_count"`
	TotalCrops     int       `json:"total_crops"`
	OverdueCrops   int       `json:"overdue_crops"`
	UtilizationPct int       `json:"utilization_pct"`
	LastUpdated    time.Time `json:"last_updated"`
}

type UtilizationService interface {
	// OccupantUtilization is round(100*crop_count/capacity), 0 when
	// capacity is 0.
	OccupantUtilization(occ types.Occupant) int
	// StationUtilization is the capacity-weighted average over placed
	// occupants, so a half-full large tray outweighs a half-full small one.
	StationUtilization(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (int, error)
	Summary(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (*StationSummary, error)
}

type utilizationService struct {
	db            *gorm.DB
	log           *logger.Logger
	grid          *SlotGrid
	containerRepo repos.ContainerRepo
	trayRepo      repos.TrayRepo
	panelRepo     repos.PanelRepo
	cropRepo      repos.CropRepo
}

func NewUtilizationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	grid *SlotGrid,
	containerRepo repos.ContainerRepo,
	trayRepo repos.TrayRepo,
	panelRepo repos.PanelRepo,
	cropRepo repos.CropRepo,
) UtilizationService {
	return &utilizationService{
		db:            db,
		log:           baseLog.With("service", "UtilizationService"),
		grid:          grid,
		containerRepo: containerRepo,
		trayRepo:      trayRepo,
		panelRepo:     panelRepo,
		cropRepo:      cropRepo,
	}
}

func (s *utilizationService) requireContainer(ctx context.Context, id uuid.UUID) error {
	container, err := s.containerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if container == nil {
		return apierr.NotFound("container_not_found", "container %s not found", id)
	}
	return nil
}

func (s *utilizationService) OccupantUtilization(occ types.Occupant) int {
	return occ.Core().UtilizationPct()
}

func (s *utilizationService) listPlacedCores(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) ([]*types.OccupantCore, error) {
	var cores []*types.OccupantCore
	if kind == types.OccupantKindPanel {
		panels, err := s.panelRepo.ListPlaced(ctx, nil, containerID)
		if err != nil {
			return nil, err
		}
		for _, p := range panels {
			cores = append(cores, p.Core())
		}
		return cores, nil
	}
	trays, err := s.trayRepo.ListPlaced(ctx, nil, containerID)
	if err != nil {
		return nil, err
	}
	for _, t := range trays {
		cores = append(cores, t.Core())
	}
	return cores, nil
}

func (s *utilizationService) StationUtilization(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (int, error) {
	if err := s.requireContainer(ctx, containerID); err != nil {
		return 0, err
	}
	cores, err := s.listPlacedCores(ctx, containerID, kind)
	if err != nil {
		return 0, err
	}
	return weightedUtilization(cores), nil
}

func weightedUtilization(cores []*types.OccupantCore) int {
	totalCapacity, totalCrops := 0, 0
	for _, c := range cores {
		if c.Capacity <= 0 {
			continue
		}
		totalCapacity += c.Capacity
		totalCrops += c.CropCount
	}
	if totalCapacity == 0 {
		return 0
	}
	return int(math.Round(100 * float64(totalCrops) / float64(totalCapacity)))
}

func (s *utilizationService) Summary(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (*StationSummary, error) {
	if err := s.requireContainer(ctx, containerID); err != nil {
		return nil, err
	}

	var (
		placed       []*types.OccupantCore
		all          []*types.OccupantCore
		offShelf     int
		overdueCrops int
	)

	// Independent read-committed reads; slight staleness between them is
	// acceptable for a dashboard aggregate.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cores, err := s.listPlacedCores(gctx, containerID, kind)
		placed = cores
		return err
	})
	g.Go(func() error {
		var err error
		all, offShelf, err = s.listAllCores(gctx, containerID, kind)
		return err
	})
	g.Go(func() error {
		crops, err := s.cropRepo.ListUntransplantedByContainer(gctx, nil, containerID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, crop := range crops {
			if !cropMatchesKind(crop, kind) {
				continue
			}
			if crop.IsOverdue(now) {
				overdueCrops++
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalCrops := 0
	for _, c := range all {
		totalCrops += c.CropCount
	}

	return &StationSummary{
		TotalSlots:     s.grid.TotalSlots(types.SlotKindFor(kind)),
		OccupiedSlots:  len(placed),
		TotalOccupants: len(all),
		OffShelfCount:  offShelf,
		TotalCrops:     totalCrops,
		OverdueCrops:   overdueCrops,
		UtilizationPct: weightedUtilization(placed),
		LastUpdated:    time.Now().UTC(),
	}, nil
}

func (s *utilizationService) listAllCores(ctx context.Context, containerID uuid.UUID, kind types.OccupantKind) (all []*types.OccupantCore, offShelf int, err error) {
	if kind == types.OccupantKindPanel {
		panels, err := s.panelRepo.ListByContainer(ctx, nil, containerID)
		if err != nil {
			return nil, 0, err
		}
		for _, p := range panels {
			core := p.Core()
			if core.Status == types.OccupantStatusDisposed {
				continue
			}
			all = append(all, core)
			if !core.IsPlaced() {
				offShelf++
			}
		}
		return all, offShelf, nil
	}
	trays, err := s.trayRepo.ListByContainer(ctx, nil, containerID)
	if err != nil {
		return nil, 0, err
	}
	for _, t := range trays {
		core := t.Core()
		if core.Status == types.OccupantStatusDisposed {
			continue
		}
		all = append(all, core)
		if !core.IsPlaced() {
			offShelf++
		}
	}
	return all, offShelf, nil
}

func cropMatchesKind(crop *types.Crop, kind types.OccupantKind) bool {
	if kind == types.OccupantKindPanel {
		return crop.PanelID != nil
	}
	return crop.TrayID != nil
}
