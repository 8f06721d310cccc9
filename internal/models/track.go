package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is the metadata row for one music track. Asset references are kept
// consistent by the track service; the store enforces no foreign keys.
type Track struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Artist      string        `gorm:"size:255;not null" json:"artist"`
	Description string        `gorm:"size:1000" json:"description,omitempty"`
	Category    MusicCategory `gorm:"size:32;index" json:"category"`
	Duration    float64       `gorm:"default:0" json:"duration"` // seconds

	AudioFileID  *uuid.UUID `gorm:"type:uuid" json:"audioFileId"`
	CoverImageID *uuid.UUID `gorm:"type:uuid" json:"coverImageId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
