package recipe

import (
	"time"

	"github.com/google/uuid"
)

type Master struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	CropType string    `gorm:"column:crop_type;not null" json:"crop_type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Master) TableName() string { return "recipe_master" }

// Params are the numeric cultivation setpoints carried by a version.
type Params struct {
	TemperatureC float64 `gorm:"column:temperature_c;not null" json:"temperature_c"`
	HumidityPct  float64 `gorm:"column:humidity_pct;not null" json:"humidity_pct"`
	CO2PPM       float64 `gorm:"column:co2_ppm;not null" json:"co2_ppm"`
	PH           float64 `gorm:"column:ph;not null" json:"ph"`
	ECMSCm       float64 `gorm:"column:ec_ms_cm;not null" json:"ec_ms_cm"`
	LightHours   float64 `gorm:"column:light_hours;not null" json:"light_hours"`
	WaterHours   float64 `gorm:"column:water_hours;not null" json:"water_hours"`
	TrayDensity  float64 `gorm:"column:tray_density;not null" json:"tray_density"`
}

// Version is one [valid_from, valid_to) interval of parameters for a
// recipe. Intervals of sibling versions never overlap; a nil ValidTo is
// open-ended.
type Version struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_recipe_version_label" json:"recipe_id"`

	VersionLabel string     `gorm:"column:version_label;not null;uniqueIndex:ux_recipe_version_label" json:"version_label"`
	ValidFrom    time.Time  `gorm:"column:valid_from;not null;index" json:"valid_from"`
	ValidTo      *time.Time `gorm:"column:valid_to" json:"valid_to,omitempty"`

	Params `gorm:"embedded"`

	CreatedBy string    `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Version) TableName() string { return "recipe_version" }

// Contains reports whether at falls inside [ValidFrom, ValidTo).
func (v *Version) Contains(at time.Time) bool {
	if at.Before(v.ValidFrom) {
		return false
	}
	return v.ValidTo == nil || at.Before(*v.ValidTo)
}

// Overlaps treats an open ValidTo as extending to +infinity.
func (v *Version) Overlaps(other *Version) bool {
	if other.ValidTo != nil && !v.ValidFrom.Before(*other.ValidTo) {
		return false
	}
	if v.ValidTo != nil && !other.ValidFrom.Before(*v.ValidTo) {
		return false
	}
	return true
}
