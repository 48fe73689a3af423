package model

import (
	"time"

	"github.com/google/uuid"
)

// Equipment is referenced by materials via explicit ID lists; unlike tags it
// is never auto-created during ingestion.
type Equipment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:text;not null;uniqueIndex:uq_equipments_name" json:"name"`
	Type         string    `gorm:"type:text;not null" json:"type"`
	Manufacturer *string   `gorm:"type:text" json:"manufacturer"`
	Memo         *string   `gorm:"type:text" json:"memo"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Materials []Material `gorm:"many2many:material_equipments;" json:"materials,omitempty"`
}

func (Equipment) TableName() string { return "equipments" }
