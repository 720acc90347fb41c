package inventory

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type OccupantKind string

const (
	OccupantKindTray  OccupantKind = "tray"
	OccupantKindPanel OccupantKind = "panel"
)

// SlotKindFor returns the slot population an occupant kind lives in:
// trays sit on nursery shelves, panels hang on cultivation walls.
func SlotKindFor(kind OccupantKind) SlotKind {
	if kind == OccupantKindPanel {
		return SlotKindWall
	}
	return SlotKindShelf
}

type OccupantStatus string

const (
	OccupantStatusAvailable   OccupantStatus = "available"
	OccupantStatusInUse       OccupantStatus = "in_use"
	OccupantStatusMaintenance OccupantStatus = "maintenance"
	OccupantStatusDisposed    OccupantStatus = "disposed"
)

func (s OccupantStatus) Valid() bool {
	switch s {
	case OccupantStatusAvailable, OccupantStatusInUse, OccupantStatusMaintenance, OccupantStatusDisposed:
		return true
	}
	return false
}

// OccupantCore carries the placement and capacity state shared by trays
// and panels. The NULL slot column triple means "off-shelf"; the partial
// unique index over (container_id, slot_kind, slot_identifier, slot_number)
// makes double-placement a storage-level conflict, not a lost race.
type OccupantCore struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContainerID uuid.UUID `gorm:"type:uuid;not null;index" json:"container_id"`

	RFIDTag *string `gorm:"column:rfid_tag;uniqueIndex" json:"rfid_tag,omitempty"`

	SlotKind       *string `gorm:"column:slot_kind" json:"-"`
	SlotIdentifier *string `gorm:"column:slot_identifier" json:"-"`
	SlotNumber     *int    `gorm:"column:slot_number" json:"-"`

	Capacity  int            `gorm:"column:capacity;not null" json:"capacity"`
	CropCount int            `gorm:"column:crop_count;not null;default:0" json:"crop_count"`
	Status    OccupantStatus `gorm:"column:status;not null;default:'available'" json:"status"`

	ProvisionedAt time.Time  `gorm:"column:provisioned_at;not null;index" json:"provisioned_at"`
	LastMovedAt   *time.Time `gorm:"column:last_moved_at" json:"last_moved_at,omitempty"`
	MovedBy       string     `gorm:"column:moved_by" json:"moved_by,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (o *OccupantCore) Location() *Location {
	return LocationFromColumns(o.SlotKind, o.SlotIdentifier, o.SlotNumber)
}

func (o *OccupantCore) IsPlaced() bool { return o.SlotKind != nil }

func (o *OccupantCore) SetLocation(loc Location, movedBy string, at time.Time) {
	o.SlotKind, o.SlotIdentifier, o.SlotNumber = loc.Columns()
	o.MovedBy = movedBy
	o.LastMovedAt = &at
}

func (o *OccupantCore) ClearLocation(movedBy string, at time.Time) {
	o.SlotKind, o.SlotIdentifier, o.SlotNumber = nil, nil, nil
	o.MovedBy = movedBy
	o.LastMovedAt = &at
}

// UtilizationPct is crop_count/capacity as a rounded percentage, 0 when
// capacity is 0.
func (o *OccupantCore) UtilizationPct() int {
	if o.Capacity <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(o.CropCount) / float64(o.Capacity)))
}

// Occupant is the shared view of a tray or panel used by the placement
// and snapshot services.
type Occupant interface {
	Core() *OccupantCore
	Kind() OccupantKind
}

type Tray struct {
	OccupantCore `gorm:"embedded"`

	Crops []*Crop `gorm:"foreignKey:TrayID;constraint:OnDelete:CASCADE" json:"crops,omitempty"`
}

func (Tray) TableName() string      { return "tray" }
func (t *Tray) Core() *OccupantCore { return &t.OccupantCore }
func (t *Tray) Kind() OccupantKind  { return OccupantKindTray }

type Panel struct {
	OccupantCore `gorm:"embedded"`

	Crops []*Crop `gorm:"foreignKey:PanelID;constraint:OnDelete:CASCADE" json:"crops,omitempty"`
}

func (Panel) TableName() string      { return "panel" }
func (p *Panel) Core() *OccupantCore { return &p.OccupantCore }
func (p *Panel) Kind() OccupantKind  { return OccupantKindPanel }

// RFIDAssignment is the tag registry: one row per live tag across both
// occupant populations. Its primary key is what turns a concurrent
// double-provision into a duplicate-key conflict.
type RFIDAssignment struct {
	Tag          string       `gorm:"column:tag;primaryKey" json:"tag"`
	OccupantKind OccupantKind `gorm:"column:occupant_kind;not null" json:"occupant_kind"`
	OccupantID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"occupant_id"`
	ContainerID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"container_id"`
	AssignedAt   time.Time    `gorm:"column:assigned_at;not null" json:"assigned_at"`
}

func (RFIDAssignment) TableName() string { return "rfid_assignment" }
