package inventory

import (
	"time"

	"github.com/google/uuid"
)

type ContainerType string

const (
	ContainerTypePhysical ContainerType = "physical"
	ContainerTypeVirtual  ContainerType = "virtual"
)

type Container struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID     `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name     string        `gorm:"column:name;not null" json:"name"`
	Type     ContainerType `gorm:"column:type;not null;default:'physical'" json:"type"`
	Notes    string        `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Container) TableName() string { return "container" }
