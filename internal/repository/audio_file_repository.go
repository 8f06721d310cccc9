package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
	"gorm.io/gorm"
)

// AudioFileRepository stores audio asset rows keyed by id.
type AudioFileRepository interface {
	Save(file *models.AudioFile) error
	FindByID(id uuid.UUID) (*models.AudioFile, error)
	Delete(id uuid.UUID) error
	ExistsByID(id uuid.UUID) (bool, error)
}

type gormAudioFileRepository struct {
	db *gorm.DB
}

func NewAudioFileRepository(db *gorm.DB) AudioFileRepository {
	return &gormAudioFileRepository{db: db}
}

func (r *gormAudioFileRepository) Save(file *models.AudioFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return apperrors.Storage("audio file save", err)
	}
	return nil
}

func (r *gormAudioFileRepository) FindByID(id uuid.UUID) (*models.AudioFile, error) {
	var file models.AudioFile
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Audio file", "id", id)
		}
		return nil, apperrors.Storage("audio file lookup", err)
	}
	return &file, nil
}

func (r *gormAudioFileRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.AudioFile{}, "id = ?", id).Error; err != nil {
		return apperrors.Storage("audio file delete", err)
	}
	return nil
}

func (r *gormAudioFileRepository) ExistsByID(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.AudioFile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Storage("audio file exists check", err)
	}
	return count > 0, nil
}
