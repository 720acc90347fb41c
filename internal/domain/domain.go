package domain

import (
	"github.com/verdantstack/farmops-backend/internal/domain/inventory"
	"github.com/verdantstack/farmops-backend/internal/domain/recipe"
)

// Aggregator aliases so data and service layers can refer to every model
// through one import.

type (
	Container           = inventory.Container
	ContainerType       = inventory.ContainerType
	Location            = inventory.Location
	SlotKind            = inventory.SlotKind
	Occupant            = inventory.Occupant
	OccupantCore        = inventory.OccupantCore
	OccupantKind        = inventory.OccupantKind
	OccupantStatus      = inventory.OccupantStatus
	Tray                = inventory.Tray
	Panel               = inventory.Panel
	RFIDAssignment      = inventory.RFIDAssignment
	Crop                = inventory.Crop
	CropLifecycleStatus = inventory.CropLifecycleStatus
	SnapshotCore        = inventory.SnapshotCore
	TraySnapshot        = inventory.TraySnapshot
	PanelSnapshot       = inventory.PanelSnapshot

	RecipeMaster      = recipe.Master
	RecipeParams      = recipe.Params
	RecipeVersion     = recipe.Version
	RecipeApplication = recipe.Application
	SyncStatus        = recipe.SyncStatus
)

const (
	ContainerTypePhysical = inventory.ContainerTypePhysical
	ContainerTypeVirtual  = inventory.ContainerTypeVirtual

	SlotKindShelf = inventory.SlotKindShelf
	SlotKindWall  = inventory.SlotKindWall

	OccupantKindTray  = inventory.OccupantKindTray
	OccupantKindPanel = inventory.OccupantKindPanel

	OccupantStatusAvailable   = inventory.OccupantStatusAvailable
	OccupantStatusInUse       = inventory.OccupantStatusInUse
	OccupantStatusMaintenance = inventory.OccupantStatusMaintenance
	OccupantStatusDisposed    = inventory.OccupantStatusDisposed

	CropLifecycleSeeded       = inventory.CropLifecycleSeeded
	CropLifecycleGrowing      = inventory.CropLifecycleGrowing
	CropLifecycleTransplanted = inventory.CropLifecycleTransplanted
	CropLifecycleHarvested    = inventory.CropLifecycleHarvested
	CropLifecycleDiscarded    = inventory.CropLifecycleDiscarded

	SyncStatusPending = recipe.SyncStatusPending
	SyncStatusSynced  = recipe.SyncStatusSynced
	SyncStatusFailed  = recipe.SyncStatusFailed
)

// SlotKindFor mirrors inventory.SlotKindFor for aggregator users.
func SlotKindFor(kind OccupantKind) SlotKind { return inventory.SlotKindFor(kind) }

// LocationFromColumns mirrors inventory.LocationFromColumns.
func LocationFromColumns(kind, identifier *string, number *int) *Location {
	return inventory.LocationFromColumns(kind, identifier, number)
}
