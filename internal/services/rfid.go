package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/data/repos"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

// Tags are 3-4 uppercase letters followed by 6 digits, e.g. TRY123456.
var rfidTagPattern = regexp.MustCompile(`^[A-Z]{3,4}[0-9]{6}$`)

// NormalizeRFIDTag upper-cases and trims a tag before validation so the
// check is case-insensitive for operators typing manually.
func NormalizeRFIDTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

type RFIDValidationResult struct {
	IsValid      bool   `json:"is_valid"`
	FormatValid  bool   `json:"format_valid"`
	IsUnique     bool   `json:"is_unique"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type RFIDUsage struct {
	Kind        types.OccupantKind   `json:"kind"`
	OccupantID  uuid.UUID            `json:"occupant_id"`
	ContainerID uuid.UUID            `json:"container_id"`
	Status      types.OccupantStatus `json:"status,omitempty"`
	Location    *types.Location      `json:"location,omitempty"`
}

type RFIDService interface {
	ValidateFormat(tag string) bool
	CheckUniqueness(ctx context.Context, tx *gorm.DB, tag string) (bool, error)
	FindCurrentUsage(ctx context.Context, tx *gorm.DB, tag string) (*RFIDUsage, error)
	// Validate reports format and uniqueness as independent flags; the
	// message favors the format error when both fail.
	Validate(ctx context.Context, tag string) (*RFIDValidationResult, error)
}

type rfidService struct {
	db             *gorm.DB
	log            *logger.Logger
	assignmentRepo repos.RFIDAssignmentRepo
	trayRepo       repos.TrayRepo
	panelRepo      repos.PanelRepo
}

func NewRFIDService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assignmentRepo repos.RFIDAssignmentRepo,
	trayRepo repos.TrayRepo,
	panelRepo repos.PanelRepo,
) RFIDService {
	return &rfidService{
		db:             db,
		log:            baseLog.With("service", "RFIDService"),
		assignmentRepo: assignmentRepo,
		trayRepo:       trayRepo,
		panelRepo:      panelRepo,
	}
}

func (s *rfidService) ValidateFormat(tag string) bool {
	return rfidTagPattern.MatchString(NormalizeRFIDTag(tag))
}

func (s *rfidService) CheckUniqueness(ctx context.Context, tx *gorm.DB, tag string) (bool, error) {
	assignment, err := s.assignmentRepo.GetByTag(ctx, tx, NormalizeRFIDTag(tag))
	if err != nil {
		return false, err
	}
	return assignment == nil, nil
}

func (s *rfidService) FindCurrentUsage(ctx context.Context, tx *gorm.DB, tag string) (*RFIDUsage, error) {
	normalized := NormalizeRFIDTag(tag)
	assignment, err := s.assignmentRepo.GetByTag(ctx, tx, normalized)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}
	usage := &RFIDUsage{
		Kind:        assignment.OccupantKind,
		OccupantID:  assignment.OccupantID,
		ContainerID: assignment.ContainerID,
	}

	// The registry row only binds the tag; the occupant row carries the
	// live state the operator cares about.
	switch assignment.OccupantKind {
	case types.OccupantKindTray:
		tray, err := s.trayRepo.GetByRFIDTag(ctx, tx, normalized)
		if err != nil {
			return nil, err
		}
		if tray != nil {
			usage.Status = tray.Status
			usage.Location = tray.Location()
		}
	case types.OccupantKindPanel:
		panel, err := s.panelRepo.GetByRFIDTag(ctx, tx, normalized)
		if err != nil {
			return nil, err
		}
		if panel != nil {
			usage.Status = panel.Status
			usage.Location = panel.Location()
		}
	}
	return usage, nil
}

func (s *rfidService) Validate(ctx context.Context, tag string) (*RFIDValidationResult, error) {
	result := &RFIDValidationResult{
		FormatValid: s.ValidateFormat(tag),
	}
	unique, err := s.CheckUniqueness(ctx, nil, tag)
	if err != nil {
		s.log.Error("RFID uniqueness check failed", "error", err, "tag", tag)
		return nil, err
	}
	result.IsUnique = unique
	result.IsValid = result.FormatValid && result.IsUnique

	switch {
	case !result.FormatValid:
		result.ErrorMessage = "RFID tag must be 3-4 uppercase letters followed by 6 digits"
	case !result.IsUnique:
		result.ErrorMessage = "RFID tag is already assigned to a tray or panel"
	}
	return result, nil
}
