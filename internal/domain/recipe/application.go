package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusPending, SyncStatusSynced, SyncStatusFailed:
		return true
	}
	return false
}

// Application is one append-only ledger entry recording that a recipe
// version was applied to a container. Only EnvironmentSyncStatus ever
// changes after insert.
type Application struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContainerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"container_id"`
	RecipeVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_version_id"`

	AppliedAt time.Time `gorm:"column:applied_at;not null;index" json:"applied_at"`
	AppliedBy string    `gorm:"column:applied_by" json:"applied_by,omitempty"`

	PreviousRecipeVersionID *uuid.UUID     `gorm:"type:uuid" json:"previous_recipe_version_id,omitempty"`
	ChangesSummary          datatypes.JSON `gorm:"column:changes_summary;type:jsonb" json:"changes_summary,omitempty"`

	EnvironmentSyncStatus SyncStatus `gorm:"column:environment_sync_status;not null;default:'pending'" json:"environment_sync_status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Application) TableName() string { return "recipe_application" }
