package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoverImage is a stored cover art asset. Same shape as AudioFile but kept
// as its own table so the two asset kinds never share an id space.
type CoverImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	MimeType  string    `gorm:"size:120" json:"mimeType"`
	Data      []byte    `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *CoverImage) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
