package inventory

import (
	"time"

	"github.com/google/uuid"
)

type CropLifecycleStatus string

const (
	CropLifecycleSeeded       CropLifecycleStatus = "seeded"
	CropLifecycleGrowing      CropLifecycleStatus = "growing"
	CropLifecycleTransplanted CropLifecycleStatus = "transplanted"
	CropLifecycleHarvested    CropLifecycleStatus = "harvested"
	CropLifecycleDiscarded    CropLifecycleStatus = "discarded"
)

type CropHealthStatus string

const (
	CropHealthHealthy   CropHealthStatus = "healthy"
	CropHealthAttention CropHealthStatus = "needs_attention"
	CropHealthCritical  CropHealthStatus = "critical"
)

// Crop lives in exactly one of a tray (row/column) or a panel
// (channel/position); deleting the parent cascades.
type Crop struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TrayID  *uuid.UUID `gorm:"type:uuid;index" json:"tray_id,omitempty"`
	PanelID *uuid.UUID `gorm:"type:uuid;index" json:"panel_id,omitempty"`

	RecipeVersionID *uuid.UUID `gorm:"type:uuid;index" json:"recipe_version_id,omitempty"`

	Row      *int `gorm:"column:row" json:"row,omitempty"`
	Column   *int `gorm:"column:col" json:"column,omitempty"`
	Channel  *int `gorm:"column:channel" json:"channel,omitempty"`
	Position *int `gorm:"column:position" json:"position,omitempty"`

	LifecycleStatus CropLifecycleStatus `gorm:"column:lifecycle_status;not null;default:'seeded'" json:"lifecycle_status"`
	HealthStatus    CropHealthStatus    `gorm:"column:health_status;not null;default:'healthy'" json:"health_status"`

	SeededAt            *time.Time `gorm:"column:seeded_at" json:"seeded_at,omitempty"`
	PlannedTransplantAt *time.Time `gorm:"column:planned_transplant_at" json:"planned_transplant_at,omitempty"`
	TransplantedAt      *time.Time `gorm:"column:transplanted_at" json:"transplanted_at,omitempty"`
	HarvestedAt         *time.Time `gorm:"column:harvested_at" json:"harvested_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Crop) TableName() string { return "crop" }

// OverdueDays is derived from "now" at read time, never stored, so the
// value cannot go stale. A crop stops being overdue once transplanted.
func (c *Crop) OverdueDays(now time.Time) int {
	if c.TransplantedAt != nil || c.PlannedTransplantAt == nil {
		return 0
	}
	days := int(now.Sub(*c.PlannedTransplantAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (c *Crop) IsOverdue(now time.Time) bool {
	return c.OverdueDays(now) > 0
}
