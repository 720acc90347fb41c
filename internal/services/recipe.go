package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

type VersionInput struct {
	VersionLabel string             `json:"version_label"`
	ValidFrom    time.Time          `json:"valid_from"`
	ValidTo      *time.Time         `json:"valid_to,omitempty"`
	Params       types.RecipeParams `json:"params"`
	CreatedBy    string             `json:"created_by"`
}

// RecipeService maintains the non-overlapping [valid_from, valid_to)
// version timeline of each recipe.
type RecipeService interface {
	AddVersion(ctx context.Context, recipeID uuid.UUID, in VersionInput) (*types.RecipeVersion, error)
	UpdateVersion(ctx context.Context, versionID uuid.UUID, in VersionInput) (*types.RecipeVersion, error)
	DeleteVersion(ctx context.Context, versionID uuid.UUID) error
	ListVersions(ctx context.Context, recipeID uuid.UUID) ([]*types.RecipeVersion, error)
	// ActiveVersion returns nil (no error) when no interval contains at.
	ActiveVersion(ctx context.Context, recipeID uuid.UUID, at time.Time) (*types.RecipeVersion, error)
	LatestVersion(ctx context.Context, recipeID uuid.UUID) (*types.RecipeVersion, error)
}

type recipeService struct {
	db              *gorm.DB
	log             *logger.Logger
	masterRepo      repos.RecipeMasterRepo
	versionRepo     repos.RecipeVersionRepo
	applicationRepo repos.RecipeApplicationRepo
	cropRepo        repos.CropRepo
}

func NewRecipeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	masterRepo repos.RecipeMasterRepo,
	versionRepo repos.RecipeVersionRepo,
	applicationRepo repos.RecipeApplicationRepo,
	cropRepo repos.CropRepo,
) RecipeService {
	return &recipeService{
		db:              db,
		log:             baseLog.With("service", "RecipeService"),
		masterRepo:      masterRepo,
		versionRepo:     versionRepo,
		applicationRepo: applicationRepo,
		cropRepo:        cropRepo,
	}
}

// validateParams rejects out-of-range setpoints outright; values are
// never clamped.
func validateParams(p types.RecipeParams) error {
	if p.PH < 0 || p.PH > 14 {
		return apierr.Validation("invalid_ph", "pH %.2f out of range [0,14]", p.PH)
	}
	if p.HumidityPct < 0 || p.HumidityPct > 100 {
		return apierr.Validation("invalid_humidity", "humidity %.2f out of range [0,100]", p.HumidityPct)
	}
	nonNegative := map[string]float64{
		"temperature_c": p.TemperatureC,
		"co2_ppm":       p.CO2PPM,
		"ec_ms_cm":      p.ECMSCm,
		"light_hours":   p.LightHours,
		"water_hours":   p.WaterHours,
		"tray_density":  p.TrayDensity,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return apierr.Validation("invalid_parameter", "%s must be >= 0, got %.2f", name, v)
		}
	}
	return nil
}

func validateInterval(in VersionInput) error {
	if in.ValidFrom.IsZero() {
		return apierr.Validation("missing_valid_from", "valid_from is required")
	}
	if in.ValidTo != nil && !in.ValidTo.After(in.ValidFrom) {
		return apierr.Validation("invalid_date_order", "valid_to must be after valid_from")
	}
	return nil
}

// checkOverlap rejects the candidate if its interval intersects any
// sibling's, treating an open valid_to as +infinity. excludeID skips the
// version being updated.
func (s *recipeService) checkOverlap(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, candidate *types.RecipeVersion, excludeID *uuid.UUID) error {
	siblings, err := s.versionRepo.ListByRecipe(ctx, tx, recipeID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if excludeID != nil && sibling.ID == *excludeID {
			continue
		}
		if sibling.VersionLabel == candidate.VersionLabel {
			return apierr.Conflict("duplicate_version_label", "version label %q already exists for this recipe", candidate.VersionLabel)
		}
		if candidate.Overlaps(sibling) {
			return apierr.Validation("version_overlap", "interval overlaps version %q", sibling.VersionLabel)
		}
	}
	return nil
}

func (s *recipeService) AddVersion(ctx context.Context, recipeID uuid.UUID, in VersionInput) (*types.RecipeVersion, error) {
	if in.VersionLabel == "" {
		return nil, apierr.Validation("missing_version_label", "version_label is required")
	}
	if err := validateInterval(in); err != nil {
		return nil, err
	}
	if err := validateParams(in.Params); err != nil {
		return nil, err
	}

	version := &types.RecipeVersion{
		ID:           uuid.New(),
		RecipeID:     recipeID,
		VersionLabel: in.VersionLabel,
		ValidFrom:    in.ValidFrom,
		ValidTo:      in.ValidTo,
		Params:       in.Params,
		CreatedBy:    in.CreatedBy,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		master, err := s.masterRepo.GetByID(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if master == nil {
			return apierr.NotFound("recipe_not_found", "recipe %s not found", recipeID)
		}
		if err := s.checkOverlap(ctx, tx, recipeID, version, nil); err != nil {
			return err
		}
		if _, err := s.versionRepo.Create(ctx, tx, version); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("duplicate_version_label", "version label %q already exists for this recipe", in.VersionLabel)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

func (s *recipeService) UpdateVersion(ctx context.Context, versionID uuid.UUID, in VersionInput) (*types.RecipeVersion, error) {
	if err := validateInterval(in); err != nil {
		return nil, err
	}
	if err := validateParams(in.Params); err != nil {
		return nil, err
	}

	var updated *types.RecipeVersion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := s.versionRepo.GetByID(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if version == nil {
			return apierr.NotFound("version_not_found", "recipe version %s not found", versionID)
		}

		version.ValidFrom = in.ValidFrom
		version.ValidTo = in.ValidTo
		version.Params = in.Params
		if in.VersionLabel != "" {
			version.VersionLabel = in.VersionLabel
		}

		if err := s.checkOverlap(ctx, tx, version.RecipeID, version, &version.ID); err != nil {
			return err
		}
		if err := s.versionRepo.Save(ctx, tx, version); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("duplicate_version_label", "version label %q already exists for this recipe", version.VersionLabel)
			}
			return err
		}
		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *recipeService) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := s.versionRepo.GetByID(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if version == nil {
			return apierr.NotFound("version_not_found", "recipe version %s not found", versionID)
		}

		applications, err := s.applicationRepo.CountByVersion(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if applications > 0 {
			return apierr.BusinessLogic("version_in_use", "recipe version %q has %d application(s) and cannot be deleted", version.VersionLabel, applications)
		}
		crops, err := s.cropRepo.CountByRecipeVersion(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if crops > 0 {
			return apierr.BusinessLogic("version_in_use", "recipe version %q is referenced by %d crop(s) and cannot be deleted", version.VersionLabel, crops)
		}

		return s.versionRepo.Delete(ctx, tx, versionID)
	})
}

func (s *recipeService) ListVersions(ctx context.Context, recipeID uuid.UUID) ([]*types.RecipeVersion, error) {
	master, err := s.masterRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		return nil, err
	}
	if master == nil {
		return nil, apierr.NotFound("recipe_not_found", "recipe %s not found", recipeID)
	}
	return s.versionRepo.ListByRecipe(ctx, nil, recipeID)
}

func (s *recipeService) ActiveVersion(ctx context.Context, recipeID uuid.UUID, at time.Time) (*types.RecipeVersion, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.versionRepo.GetActive(ctx, nil, recipeID, at)
}

func (s *recipeService) LatestVersion(ctx context.Context, recipeID uuid.UUID) (*types.RecipeVersion, error) {
	return s.versionRepo.GetLatest(ctx, nil, recipeID)
}
