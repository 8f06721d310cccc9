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

// CreateTrackInput is the metadata part of a create request.
type CreateTrackInput struct {
	Title       string
	Artist      string
	Description string
	Category    models.MusicCategory
	Duration    float64
}

// TrackPatch is a field-presence patch: nil fields leave the stored value
// untouched. The merge is written out explicitly, no reflection.
type TrackPatch struct {
	Title       *string
	Artist      *string
	Description *string
	Category    *models.MusicCategory
	Duration    *float64
}

// TrackService keeps a track's metadata row and its referenced asset rows
// mutually consistent. The store enforces no foreign keys, so every
// referential guarantee lives here:
//
//   - a stored audio reference always resolves until the track is deleted
//     or the reference is replaced;
//   - a replaced asset is deleted only after its replacement is durably
//     stored, so a mid-sequence failure leaves an orphan asset at worst,
//     never a dangling reference;
//   - there is no cross-store rollback: a failure after an asset row is
//     written leaves that row behind as a known orphan for an external
//     sweep to reclaim.
type TrackService struct {
	tracks repository.TrackRepository
	files  *FileStorageService
}

func NewTrackService(tracks repository.TrackRepository, files *FileStorageService) *TrackService {
	return &TrackService{tracks: tracks, files: files}
}

// CreateTrack persists the audio asset (mandatory), then the cover asset if
// supplied, then the track row. The row write is what makes the track
// visible to readers.
func (s *TrackService) CreateTrack(ctx context.Context, input CreateTrackInput, audio, cover *FileUpload) (*models.Track, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	audioFile, err := s.files.SaveAudioFile(ctx, audio)
	if err != nil {
		return nil, err
	}

	var coverImageID *uuid.UUID
	if !cover.Empty() {
		coverImage, err := s.files.SaveCoverImage(ctx, cover)
		if err != nil {
			logger.Warn("create aborted after audio save, audio asset left as orphan",
				zap.String("audioFileId", audioFile.ID.String()),
				zap.Error(err))
			return nil, err
		}
		coverImageID = &coverImage.ID
	}

	duration := input.Duration
	if duration <= 0 {
		duration = 0
	}

	track := &models.Track{
		Title:        input.Title,
		Artist:       input.Artist,
		Description:  input.Description,
		Category:     input.Category,
		Duration:     duration,
		AudioFileID:  &audioFile.ID,
		CoverImageID: coverImageID,
	}
	if err := s.tracks.Save(track); err != nil {
		logger.Error("track row write failed, saved assets left as orphans",
			zap.String("audioFileId", audioFile.ID.String()),
			zap.Error(err))
		return nil, err
	}

	logger.Info("created track",
		zap.String("id", track.ID.String()),
		zap.String("title", track.Title),
		zap.String("artist", track.Artist))
	return track, nil
}

// UpdateTrack merges present patch fields and replaces supplied assets.
// Replacement assets are persisted up front; the replaced ones are deleted
// only after the row write commits the repointed references. Any failure in
// between aborts with the stored row still holding its old, resolvable
// references; the assets saved before the abort stay behind as orphans.
func (s *TrackService) UpdateTrack(ctx context.Context, id uuid.UUID, patch TrackPatch, audio, cover *FileUpload) (*models.Track, error) {
	track, err := s.tracks.FindByID(id)
	if err != nil {
		return nil, err
	}

	applyPatch(track, patch)
	if err := validateMetadata(track.Title, track.Artist); err != nil {
		return nil, err
	}

	var replacedAudioID, replacedCoverID *uuid.UUID

	if !audio.Empty() {
		newAudio, err := s.files.SaveAudioFile(ctx, audio)
		if err != nil {
			return nil, err
		}
		replacedAudioID = track.AudioFileID
		track.AudioFileID = &newAudio.ID
	}

	if !cover.Empty() {
		newCover, err := s.files.SaveCoverImage(ctx, cover)
		if err != nil {
			if !audio.Empty() {
				logger.Warn("update aborted after audio save, new audio asset left as orphan",
					zap.String("audioFileId", track.AudioFileID.String()),
					zap.Error(err))
			}
			return nil, err
		}
		replacedCoverID = track.CoverImageID
		track.CoverImageID = &newCover.ID
	}

	if err := s.tracks.Save(track); err != nil {
		logger.Error("track row write failed, replacement assets left as orphans",
			zap.String("id", id.String()),
			zap.Error(err))
		return nil, err
	}

	// The row now references the replacements, so the old assets are
	// unreachable. A failed delete here is logged and tolerated (orphan).
	if replacedAudioID != nil {
		if err := s.files.DeleteAudioFile(ctx, *replacedAudioID); err != nil {
			logger.Warn("failed to delete replaced audio file, leaving orphan",
				zap.String("audioFileId", replacedAudioID.String()),
				zap.Error(err))
		}
	}
	if replacedCoverID != nil {
		if err := s.files.DeleteCoverImage(ctx, *replacedCoverID); err != nil {
			logger.Warn("failed to delete replaced cover image, leaving orphan",
				zap.String("coverImageId", replacedCoverID.String()),
				zap.Error(err))
		}
	}

	logger.Info("updated track", zap.String("id", id.String()))
	return track, nil
}

// DeleteTrack removes the referenced assets first, then the row. An
// interruption between the two leaves a track whose asset lookups return
// not-found, never an ownerless asset.
func (s *TrackService) DeleteTrack(ctx context.Context, id uuid.UUID) error {
	track, err := s.tracks.FindByID(id)
	if err != nil {
		return err
	}

	if track.AudioFileID != nil {
		if err := s.files.DeleteAudioFile(ctx, *track.AudioFileID); err != nil {
			return err
		}
	}
	if track.CoverImageID != nil {
		if err := s.files.DeleteCoverImage(ctx, *track.CoverImageID); err != nil {
			return err
		}
	}

	if err := s.tracks.Delete(id); err != nil {
		return err
	}

	logger.Info("deleted track", zap.String("id", id.String()))
	return nil
}

func (s *TrackService) GetTrackByID(id uuid.UUID) (*models.Track, error) {
	return s.tracks.FindByID(id)
}

func (s *TrackService) GetAllTracks() ([]models.Track, error) {
	return s.tracks.FindAllOrderedByCreatedDesc()
}

// SearchTracks treats an empty or blank query as "return all tracks", in
// the same order as GetAllTracks.
func (s *TrackService) SearchTracks(query string) ([]models.Track, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.GetAllTracks()
	}
	return s.tracks.SearchByTitleOrArtist(trimmed)
}

func (s *TrackService) GetTracksByCategory(category models.MusicCategory) ([]models.Track, error) {
	return s.tracks.FindByCategory(category)
}

func validateCreateInput(input CreateTrackInput) error {
	if err := validateMetadata(input.Title, input.Artist); err != nil {
		return err
	}
	if !input.Category.Valid() {
		return apperrors.Validationf("Category is required")
	}
	return nil
}

func validateMetadata(title, artist string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.Validationf("Title is required")
	}
	if strings.TrimSpace(artist) == "" {
		return apperrors.Validationf("Artist is required")
	}
	return nil
}

func applyPatch(track *models.Track, patch TrackPatch) {
	if patch.Title != nil {
		track.Title = *patch.Title
	}
	if patch.Artist != nil {
		track.Artist = *patch.Artist
	}
	if patch.Description != nil {
		track.Description = *patch.Description
	}
	if patch.Category != nil {
		track.Category = *patch.Category
	}
	if patch.Duration != nil {
		duration := *patch.Duration
		if duration <= 0 {
			duration = 0
		}
		track.Duration = duration
	}
}
