package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AudioFile is a stored audio asset, payload bytes included in the row.
type AudioFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	MimeType  string    `gorm:"size:120" json:"mimeType"`
	Data      []byte    `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (a *AudioFile) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
