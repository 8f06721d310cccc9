package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
	"gorm.io/gorm"
)

// TrackRepository is the exclusive owner of track metadata rows.
type TrackRepository interface {
	Save(track *models.Track) error
	FindByID(id uuid.UUID) (*models.Track, error)
	Delete(id uuid.UUID) error
	ExistsByID(id uuid.UUID) (bool, error)
	FindByCategory(category models.MusicCategory) ([]models.Track, error)
	SearchByTitleOrArtist(query string) ([]models.Track, error)
	FindAllOrderedByCreatedDesc() ([]models.Track, error)
}

type gormTrackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

// Save upserts the row by primary key.
func (r *gormTrackRepository) Save(track *models.Track) error {
	if err := r.db.Save(track).Error; err != nil {
		return apperrors.Storage("track save", err)
	}
	return nil
}

func (r *gormTrackRepository) FindByID(id uuid.UUID) (*models.Track, error) {
	var track models.Track
	if err := r.db.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Track", "id", id)
		}
		return nil, apperrors.Storage("track lookup", err)
	}
	return &track, nil
}

func (r *gormTrackRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Track{}, "id = ?", id).Error; err != nil {
		return apperrors.Storage("track delete", err)
	}
	return nil
}

func (r *gormTrackRepository) ExistsByID(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Track{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Storage("track exists check", err)
	}
	return count > 0, nil
}

func (r *gormTrackRepository) FindByCategory(category models.MusicCategory) ([]models.Track, error) {
	tracks := make([]models.Track, 0)
	if err := r.db.Where("category = ?", category).Order("created_at DESC").Find(&tracks).Error; err != nil {
		return nil, apperrors.Storage("track category query", err)
	}
	return tracks, nil
}

// SearchByTitleOrArtist matches the query as a case-insensitive substring of
// either title or artist.
func (r *gormTrackRepository) SearchByTitleOrArtist(query string) ([]models.Track, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	tracks := make([]models.Track, 0)
	if err := r.db.
		Where("LOWER(title) LIKE ? OR LOWER(artist) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&tracks).Error; err != nil {
		return nil, apperrors.Storage("track search", err)
	}
	return tracks, nil
}

func (r *gormTrackRepository) FindAllOrderedByCreatedDesc() ([]models.Track, error) {
	tracks := make([]models.Track, 0)
	if err := r.db.Order("created_at DESC").Find(&tracks).Error; err != nil {
		return nil, apperrors.Storage("track list", err)
	}
	return tracks, nil
}
