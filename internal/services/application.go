package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/events"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// ApplicationService is the append-only ledger of recipe-version
// applications to containers. Entries are never edited; a failed sync is
// retried by applying again, not by mutating the failed row.
type ApplicationService interface {
	Apply(ctx context.Context, containerID, versionID uuid.UUID, appliedBy string) (*types.RecipeApplication, error)
	LatestForContainer(ctx context.Context, containerID uuid.UUID) (*types.RecipeApplication, error)
	ListForContainer(ctx context.Context, containerID uuid.UUID) ([]*types.RecipeApplication, error)
	// MarkSync is the one permitted mutation: pending -> synced|failed.
	MarkSync(ctx context.Context, applicationID uuid.UUID, status types.SyncStatus) (*types.RecipeApplication, error)
}

type applicationService struct {
	db              *gorm.DB
	log             *logger.Logger
	containerRepo   repos.ContainerRepo
	versionRepo     repos.RecipeVersionRepo
	applicationRepo repos.RecipeApplicationRepo
	bus             events.Bus
}

func NewApplicationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	containerRepo repos.ContainerRepo,
	versionRepo repos.RecipeVersionRepo,
	applicationRepo repos.RecipeApplicationRepo,
	bus events.Bus,
) ApplicationService {
	return &applicationService{
		db:              db,
		log:             baseLog.With("service", "RecipeApplicationService"),
		containerRepo:   containerRepo,
		versionRepo:     versionRepo,
		applicationRepo: applicationRepo,
		bus:             bus,
	}
}

func (s *applicationService) Apply(ctx context.Context, containerID, versionID uuid.UUID, appliedBy string) (*types.RecipeApplication, error) {
	var application *types.RecipeApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		container, err := s.containerRepo.GetByID(ctx, tx, containerID)
		if err != nil {
			return err
		}
		if container == nil {
			return apierr.NotFound("container_not_found", "container %s not found", containerID)
		}
		version, err := s.versionRepo.GetByID(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if version == nil {
			return apierr.NotFound("version_not_found", "recipe version %s not found", versionID)
		}

		previous, err := s.applicationRepo.LatestByContainer(ctx, tx, containerID)
		if err != nil {
			return err
		}

		application = &types.RecipeApplication{
			ID:                    uuid.New(),
			ContainerID:           containerID,
			RecipeVersionID:       versionID,
			AppliedAt:             time.Now().UTC(),
			AppliedBy:             appliedBy,
			EnvironmentSyncStatus: types.SyncStatusPending,
		}
		if previous != nil {
			application.PreviousRecipeVersionID = &previous.RecipeVersionID
			prevVersion, err := s.versionRepo.GetByID(ctx, tx, previous.RecipeVersionID)
			if err != nil {
				return err
			}
			if prevVersion != nil {
				summary, err := paramDiff(prevVersion.Params, version.Params)
				if err != nil {
					return err
				}
				application.ChangesSummary = summary
			}
		}

		_, err = s.applicationRepo.Create(ctx, tx, application)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.Event{
			Type:        events.TypeRecipeApplied,
			ContainerID: containerID,
			SubjectID:   application.ID,
			Payload:     map[string]interface{}{"recipe_version_id": versionID},
		}); err != nil {
			s.log.Warn("event publish failed", "error", err, "event_type", events.TypeRecipeApplied)
		}
	}
	return application, nil
}

func (s *applicationService) LatestForContainer(ctx context.Context, containerID uuid.UUID) (*types.RecipeApplication, error) {
	return s.applicationRepo.LatestByContainer(ctx, nil, containerID)
}

func (s *applicationService) ListForContainer(ctx context.Context, containerID uuid.UUID) ([]*types.RecipeApplication, error) {
	return s.applicationRepo.ListByContainer(ctx, nil, containerID)
}

func (s *applicationService) MarkSync(ctx context.Context, applicationID uuid.UUID, status types.SyncStatus) (*types.RecipeApplication, error) {
	if status != types.SyncStatusSynced && status != types.SyncStatusFailed {
		return nil, apierr.Validation("invalid_sync_status", "sync status must be synced or failed, got %q", status)
	}

	var application *types.RecipeApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.applicationRepo.GetByID(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if found == nil {
			return apierr.NotFound("application_not_found", "recipe application %s not found", applicationID)
		}
		if found.EnvironmentSyncStatus != types.SyncStatusPending {
			return apierr.BusinessLogic("sync_already_resolved", "application is %s; only pending applications can transition", found.EnvironmentSyncStatus)
		}
		found.EnvironmentSyncStatus = status
		if err := s.applicationRepo.Save(ctx, tx, found); err != nil {
			return err
		}
		application = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// paramDiff records only the setpoints that changed, old -> new.
func paramDiff(prev, next types.RecipeParams) (datatypes.JSON, error) {
	type change struct {
		Old float64 `json:"old"`
		New float64 `json:"new"`
	}
	diff := map[string]change{}
	pairs := []struct {
		name       string
		prev, next float64
	}{
		{"temperature_c", prev.TemperatureC, next.TemperatureC},
		{"humidity_pct", prev.HumidityPct, next.HumidityPct},
		{"co2_ppm", prev.CO2PPM, next.CO2PPM},
		{"ph", prev.PH, next.PH},
		{"ec_ms_cm", prev.ECMSCm, next.ECMSCm},
		{"light_hours", prev.LightHours, next.LightHours},
		{"water_hours", prev.WaterHours, next.WaterHours},
		{"tray_density", prev.TrayDensity, next.TrayDensity},
	}
	for _, p := range pairs {
		if p.prev != p.next {
			diff[p.name] = change{Old: p.prev, New: p.next}
		}
	}
	if len(diff) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(diff)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
