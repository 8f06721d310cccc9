package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
	"gorm.io/gorm"
)

// CoverImageRepository stores cover art asset rows keyed by id.
type CoverImageRepository interface {
	Save(image *models.CoverImage) error
	FindByID(id uuid.UUID) (*models.CoverImage, error)
	Delete(id uuid.UUID) error
	ExistsByID(id uuid.UUID) (bool, error)
}

type gormCoverImageRepository struct {
	db *gorm.DB
}

func NewCoverImageRepository(db *gorm.DB) CoverImageRepository {
	return &gormCoverImageRepository{db: db}
}

func (r *gormCoverImageRepository) Save(image *models.CoverImage) error {
	if err := r.db.Create(image).Error; err != nil {
		return apperrors.Storage("cover image save", err)
	}
	return nil
}

func (r *gormCoverImageRepository) FindByID(id uuid.UUID) (*models.CoverImage, error) {
	var image models.CoverImage
	if err := r.db.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Cover image", "id", id)
		}
		return nil, apperrors.Storage("cover image lookup", err)
	}
	return &image, nil
}

func (r *gormCoverImageRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.CoverImage{}, "id = ?", id).Error; err != nil {
		return apperrors.Storage("cover image delete", err)
	}
	return nil
}

func (r *gormCoverImageRepository) ExistsByID(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CoverImage{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Storage("cover image exists check", err)
	}
	return count > 0, nil
}
