package inventory

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotCore is an immutable point-in-time copy of an occupant's state,
// kept append-only for time-lapse playback. Rows are never updated.
type SnapshotCore struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContainerID uuid.UUID `gorm:"type:uuid;not null;index" json:"container_id"`
	OccupantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"occupant_id"`

	RFIDTag        *string `gorm:"column:rfid_tag" json:"rfid_tag,omitempty"`
	SlotKind       *string `gorm:"column:slot_kind" json:"-"`
	SlotIdentifier *string `gorm:"column:slot_identifier" json:"-"`
	SlotNumber     *int    `gorm:"column:slot_number" json:"-"`

	CropCount      int            `gorm:"column:crop_count;not null" json:"crop_count"`
	UtilizationPct int            `gorm:"column:utilization_pct;not null" json:"utilization_percentage"`
	Status         OccupantStatus `gorm:"column:status;not null" json:"status"`

	CapturedAt time.Time `gorm:"column:captured_at;not null;index" json:"captured_at"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (s *SnapshotCore) Location() *Location {
	return LocationFromColumns(s.SlotKind, s.SlotIdentifier, s.SlotNumber)
}

type TraySnapshot struct {
	SnapshotCore `gorm:"embedded"`
}

func (TraySnapshot) TableName() string { return "tray_snapshot" }

type PanelSnapshot struct {
	SnapshotCore `gorm:"embedded"`
}

func (PanelSnapshot) TableName() string { return "panel_snapshot" }
