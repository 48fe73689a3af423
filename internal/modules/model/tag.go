package model

import (
	"time"

	"github.com/google/uuid"
)

// Tag is created explicitly through master-data CRUD or implicitly during
// material ingestion (resolve-then-write: missing names are created first,
// then the material row references concrete IDs).
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex:uq_tags_name" json:"name"`
	Slug string    `gorm:"type:text;not null;uniqueIndex:uq_tags_slug" json:"slug"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Materials []Material `gorm:"many2many:material_tags;" json:"materials,omitempty"`
}

func (Tag) TableName() string { return "tags" }
