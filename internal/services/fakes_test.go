package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
)

// In-memory repository fakes. The asset fakes record their operations in
// order so tests can assert the new-save-before-old-delete guarantee.

type fakeTrackRepo struct {
	tracks  map[uuid.UUID]models.Track
	order   []uuid.UUID
	saveErr error
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{tracks: make(map[uuid.UUID]models.Track)}
}

func (f *fakeTrackRepo) Save(track *models.Track) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if track.ID == uuid.Nil {
		track.ID = uuid.New()
	}
	now := time.Now()
	if track.CreatedAt.IsZero() {
		track.CreatedAt = now
		f.order = append(f.order, track.ID)
	}
	track.UpdatedAt = now
	f.tracks[track.ID] = *track
	return nil
}

func (f *fakeTrackRepo) FindByID(id uuid.UUID) (*models.Track, error) {
	track, ok := f.tracks[id]
	if !ok {
		return nil, apperrors.NotFound("Track", "id", id)
	}
	copied := track
	return &copied, nil
}

func (f *fakeTrackRepo) Delete(id uuid.UUID) error {
	delete(f.tracks, id)
	return nil
}

func (f *fakeTrackRepo) ExistsByID(id uuid.UUID) (bool, error) {
	_, ok := f.tracks[id]
	return ok, nil
}

func (f *fakeTrackRepo) FindByCategory(category models.MusicCategory) ([]models.Track, error) {
	results := make([]models.Track, 0)
	for _, track := range f.newestFirst() {
		if track.Category == category {
			results = append(results, track)
		}
	}
	return results, nil
}

func (f *fakeTrackRepo) SearchByTitleOrArtist(query string) ([]models.Track, error) {
	needle := strings.ToLower(query)
	results := make([]models.Track, 0)
	for _, track := range f.newestFirst() {
		if strings.Contains(strings.ToLower(track.Title), needle) ||
			strings.Contains(strings.ToLower(track.Artist), needle) {
			results = append(results, track)
		}
	}
	return results, nil
}

func (f *fakeTrackRepo) FindAllOrderedByCreatedDesc() ([]models.Track, error) {
	return f.newestFirst(), nil
}

func (f *fakeTrackRepo) newestFirst() []models.Track {
	results := make([]models.Track, 0, len(f.tracks))
	for i := len(f.order) - 1; i >= 0; i-- {
		if track, ok := f.tracks[f.order[i]]; ok {
			results = append(results, track)
		}
	}
	return results
}

type fakeAudioRepo struct {
	files     map[uuid.UUID]models.AudioFile
	ops       []string
	saveErr   error
	deleteErr error
}

func newFakeAudioRepo() *fakeAudioRepo {
	return &fakeAudioRepo{files: make(map[uuid.UUID]models.AudioFile)}
}

func (f *fakeAudioRepo) Save(file *models.AudioFile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.CreatedAt = time.Now()
	f.files[file.ID] = *file
	f.ops = append(f.ops, "save:"+file.ID.String())
	return nil
}

func (f *fakeAudioRepo) FindByID(id uuid.UUID) (*models.AudioFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, apperrors.NotFound("Audio file", "id", id)
	}
	copied := file
	return &copied, nil
}

func (f *fakeAudioRepo) Delete(id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.files, id)
	f.ops = append(f.ops, "delete:"+id.String())
	return nil
}

func (f *fakeAudioRepo) ExistsByID(id uuid.UUID) (bool, error) {
	_, ok := f.files[id]
	return ok, nil
}

type fakeCoverRepo struct {
	images  map[uuid.UUID]models.CoverImage
	ops     []string
	saveErr error
}

func newFakeCoverRepo() *fakeCoverRepo {
	return &fakeCoverRepo{images: make(map[uuid.UUID]models.CoverImage)}
}

func (f *fakeCoverRepo) Save(image *models.CoverImage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	image.CreatedAt = time.Now()
	f.images[image.ID] = *image
	f.ops = append(f.ops, "save:"+image.ID.String())
	return nil
}

func (f *fakeCoverRepo) FindByID(id uuid.UUID) (*models.CoverImage, error) {
	image, ok := f.images[id]
	if !ok {
		return nil, apperrors.NotFound("Cover image", "id", id)
	}
	copied := image
	return &copied, nil
}

func (f *fakeCoverRepo) Delete(id uuid.UUID) error {
	delete(f.images, id)
	f.ops = append(f.ops, "delete:"+id.String())
	return nil
}

func (f *fakeCoverRepo) ExistsByID(id uuid.UUID) (bool, error) {
	_, ok := f.images[id]
	return ok, nil
}

func indexOf(ops []string, op string) int {
	for i, candidate := range ops {
		if candidate == op {
			return i
		}
	}
	return -1
}
