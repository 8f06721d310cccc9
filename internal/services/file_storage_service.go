package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/logger"
	"github.com/mosiqa/backend/internal/models"
	"github.com/mosiqa/backend/internal/repository"
	"go.uber.org/zap"
)

// MaxAssetSize caps any single uploaded payload at 50 MiB.
const MaxAssetSize = 50 * 1024 * 1024

var allowedAudioTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/wav":   {},
	"audio/ogg":   {},
	"audio/mp3":   {},
	"audio/x-wav": {},
}

var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
}

// FileStorageService is the asset store: it validates and persists binary
// assets as opaque blobs and serves them back by id. Audio and cover images
// live in separate tables with separate validation policies.
type FileStorageService struct {
	audioFiles  repository.AudioFileRepository
	coverImages repository.CoverImageRepository
	coverCache  *CoverCache // optional
}

func NewFileStorageService(audioFiles repository.AudioFileRepository, coverImages repository.CoverImageRepository, coverCache *CoverCache) *FileStorageService {
	return &FileStorageService{
		audioFiles:  audioFiles,
		coverImages: coverImages,
		coverCache:  coverCache,
	}
}

// ValidateAudioUpload enforces the mandatory audio policy: a missing or
// empty payload is itself a validation failure.
func (s *FileStorageService) ValidateAudioUpload(upload *FileUpload) error {
	if upload.Empty() {
		return apperrors.Validationf("Audio file is required")
	}
	if upload.payloadSize() > MaxAssetSize {
		return apperrors.Validationf("Audio file size exceeds maximum allowed size (50MB)")
	}
	if _, ok := allowedAudioTypes[strings.ToLower(upload.MimeType)]; !ok {
		return apperrors.Validationf("Invalid audio format. Allowed formats: MP3, WAV, OGG")
	}
	return nil
}

// ValidateImageUpload enforces the optional-but-strict image policy: an
// absent payload is accepted silently, a present one must pass the checks.
func (s *FileStorageService) ValidateImageUpload(upload *FileUpload) error {
	if upload.Empty() {
		return nil
	}
	if upload.payloadSize() > MaxAssetSize {
		return apperrors.Validationf("Image file size exceeds maximum allowed size (50MB)")
	}
	if _, ok := allowedImageTypes[strings.ToLower(upload.MimeType)]; !ok {
		return apperrors.Validationf("Invalid image format. Allowed formats: PNG, JPEG")
	}
	return nil
}

func (s *FileStorageService) SaveAudioFile(ctx context.Context, upload *FileUpload) (*models.AudioFile, error) {
	if err := s.ValidateAudioUpload(upload); err != nil {
		return nil, err
	}

	file := &models.AudioFile{
		Name:      upload.Filename,
		SizeBytes: upload.payloadSize(),
		MimeType:  upload.MimeType,
		Data:      upload.Data,
	}
	if err := s.audioFiles.Save(file); err != nil {
		return nil, err
	}

	logger.Info("saved audio file",
		zap.String("name", file.Name),
		zap.String("id", file.ID.String()),
		zap.Int64("sizeBytes", file.SizeBytes))
	return file, nil
}

func (s *FileStorageService) GetAudioFile(ctx context.Context, id uuid.UUID) (*models.AudioFile, error) {
	return s.audioFiles.FindByID(id)
}

// DeleteAudioFile is idempotent: deleting an id that no longer exists is a
// silent no-op, not an error.
func (s *FileStorageService) DeleteAudioFile(ctx context.Context, id uuid.UUID) error {
	exists, err := s.audioFiles.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.audioFiles.Delete(id); err != nil {
		return err
	}
	logger.Info("deleted audio file", zap.String("id", id.String()))
	return nil
}

func (s *FileStorageService) SaveCoverImage(ctx context.Context, upload *FileUpload) (*models.CoverImage, error) {
	if upload.Empty() {
		return nil, apperrors.Validationf("Image file is required")
	}
	if err := s.ValidateImageUpload(upload); err != nil {
		return nil, err
	}

	image := &models.CoverImage{
		Name:      upload.Filename,
		SizeBytes: upload.payloadSize(),
		MimeType:  upload.MimeType,
		Data:      upload.Data,
	}
	if err := s.coverImages.Save(image); err != nil {
		return nil, err
	}

	logger.Info("saved cover image",
		zap.String("name", image.Name),
		zap.String("id", image.ID.String()),
		zap.Int64("sizeBytes", image.SizeBytes))
	return image, nil
}

func (s *FileStorageService) GetCoverImage(ctx context.Context, id uuid.UUID) (*models.CoverImage, error) {
	if s.coverCache != nil {
		if image, ok := s.coverCache.Get(ctx, id); ok {
			return image, nil
		}
	}

	image, err := s.coverImages.FindByID(id)
	if err != nil {
		return nil, err
	}
	if s.coverCache != nil {
		s.coverCache.Set(ctx, image)
	}
	return image, nil
}

// DeleteCoverImage is idempotent like DeleteAudioFile. The cache entry goes
// first so a deleted id cannot keep resolving from Redis.
func (s *FileStorageService) DeleteCoverImage(ctx context.Context, id uuid.UUID) error {
	if s.coverCache != nil {
		s.coverCache.Invalidate(ctx, id)
	}

	exists, err := s.coverImages.ExistsByID(id)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.coverImages.Delete(id); err != nil {
		return err
	}
	logger.Info("deleted cover image", zap.String("id", id.String()))
	return nil
}
