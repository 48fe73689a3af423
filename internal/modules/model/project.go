package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:uq_projects_name" json:"name"`
	Slug        string    `gorm:"type:text;not null;uniqueIndex:uq_projects_slug" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Materials []Material `gorm:"many2many:project_materials;" json:"materials,omitempty"`
}

func (Project) TableName() string { return "projects" }
