package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Material is a catalogued field recording. The six audio-derived columns
// (file format through channels) are nullable: they are populated from the
// probe at ingestion and carried forward unchanged on updates that keep the
// existing file.
type Material struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug  string    `gorm:"type:text;not null;uniqueIndex:uq_materials_slug" json:"slug"`
	Title string    `gorm:"type:text;not null;uniqueIndex:uq_materials_title" json:"title"`

	FilePath   string    `gorm:"type:text;not null" json:"filePath"`
	RecordedAt time.Time `gorm:"not null" json:"recordedAt"`
	Memo       *string   `gorm:"type:text" json:"memo"`

	FileFormat      *string  `gorm:"type:text" json:"fileFormat"`
	SampleRate      *int     `json:"sampleRate"`
	BitDepth        *int     `json:"bitDepth"`
	DurationSeconds *float64 `gorm:"type:numeric" json:"durationSeconds"`
	Channels        *int     `json:"channels"`

	Latitude     *float64 `gorm:"type:numeric" json:"latitude"`
	Longitude    *float64 `gorm:"type:numeric" json:"longitude"`
	LocationName *string  `gorm:"type:text" json:"locationName"`

	Rating *int `json:"rating"`

	// Container tags reported by the probe (encoder, artist, ...), kept
	// verbatim for display.
	ProbeTags datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"probeTags,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Tags       []Tag       `gorm:"many2many:material_tags;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"tags"`
	Equipments []Equipment `gorm:"many2many:material_equipments;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"equipments"`
	Projects   []Project   `gorm:"many2many:project_materials;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"projects,omitempty"`
}

func (Material) TableName() string { return "materials" }
