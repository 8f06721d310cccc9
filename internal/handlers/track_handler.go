package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
	"github.com/mosiqa/backend/internal/services"
)

type TrackHandler struct {
	trackService *services.TrackService
}

func NewTrackHandler(trackService *services.TrackService) *TrackHandler {
	return &TrackHandler{trackService: trackService}
}

// createMetadata is the JSON "metadata" part of a create request.
type createMetadata struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Duration    float64 `json:"duration"`
}

// patchMetadata is the JSON "metadata" part of an update request. Absent
// fields stay untouched.
type patchMetadata struct {
	Title       *string  `json:"title"`
	Artist      *string  `json:"artist"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Duration    *float64 `json:"duration"`
}

// GetAllTracks lists every track, newest first.
// GET /api/v1/tracks
func (h *TrackHandler) GetAllTracks(c *gin.Context) {
	tracks, err := h.trackService.GetAllTracks()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

// GetTrackByID returns one track.
// GET /api/v1/tracks/:id
func (h *TrackHandler) GetTrackByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track ID"})
		return
	}

	track, err := h.trackService.GetTrackByID(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

// CreateTrack creates a track from a multipart request: a "metadata" JSON
// part, a mandatory "audioFile" part and an optional "coverImage" part.
// POST /api/v1/tracks
func (h *TrackHandler) CreateTrack(c *gin.Context) {
	var meta createMetadata
	if err := bindMetadataPart(c, &meta); err != nil {
		writeError(c, err)
		return
	}

	category, err := models.ParseMusicCategory(meta.Category)
	if err != nil {
		writeError(c, err)
		return
	}

	audio, err := readFileUpload(c, "audioFile")
	if err != nil {
		writeError(c, err)
		return
	}
	cover, err := readFileUpload(c, "coverImage")
	if err != nil {
		writeError(c, err)
		return
	}

	track, err := h.trackService.CreateTrack(c.Request.Context(), services.CreateTrackInput{
		Title:       meta.Title,
		Artist:      meta.Artist,
		Description: meta.Description,
		Category:    category,
		Duration:    meta.Duration,
	}, audio, cover)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, track)
}

// UpdateTrack applies a metadata patch and/or replacement payloads. The
// "metadata" part may be omitted entirely when only assets change.
// PUT /api/v1/tracks/:id
func (h *TrackHandler) UpdateTrack(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track ID"})
		return
	}

	var patch services.TrackPatch
	if raw := c.PostForm("metadata"); raw != "" {
		var meta patchMetadata
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			writeError(c, apperrors.Validationf("Malformed metadata: %v", err))
			return
		}
		patch = services.TrackPatch{
			Title:       meta.Title,
			Artist:      meta.Artist,
			Description: meta.Description,
			Duration:    meta.Duration,
		}
		if meta.Category != nil {
			category, err := models.ParseMusicCategory(*meta.Category)
			if err != nil {
				writeError(c, err)
				return
			}
			patch.Category = &category
		}
	}

	audio, err := readFileUpload(c, "audioFile")
	if err != nil {
		writeError(c, err)
		return
	}
	cover, err := readFileUpload(c, "coverImage")
	if err != nil {
		writeError(c, err)
		return
	}

	track, err := h.trackService.UpdateTrack(c.Request.Context(), id, patch, audio, cover)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, track)
}

// DeleteTrack removes a track and the assets it references.
// DELETE /api/v1/tracks/:id
func (h *TrackHandler) DeleteTrack(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track ID"})
		return
	}

	if err := h.trackService.DeleteTrack(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchTracks matches q against title or artist; a blank q lists all.
// GET /api/v1/tracks/search?q=
func (h *TrackHandler) SearchTracks(c *gin.Context) {
	tracks, err := h.trackService.SearchTracks(c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

// GetTracksByCategory filters by one category label.
// GET /api/v1/tracks/category/:category
func (h *TrackHandler) GetTracksByCategory(c *gin.Context) {
	category, err := models.ParseMusicCategory(c.Param("category"))
	if err != nil {
		writeError(c, err)
		return
	}

	tracks, err := h.trackService.GetTracksByCategory(category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func bindMetadataPart(c *gin.Context, out *createMetadata) error {
	raw := c.PostForm("metadata")
	if raw == "" {
		return apperrors.Validationf("Metadata is required")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return apperrors.Validationf("Malformed metadata: %v", err)
	}
	return nil
}

// readFileUpload pulls one file part into memory. A missing part yields a
// nil upload, which the services treat as "not supplied"; any other form
// error means the body itself is unreadable.
func readFileUpload(c *gin.Context, field string) (*services.FileUpload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Validationf("Failed to read %s: %v", field, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.Validationf("Failed to read %s: %v", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Validationf("Failed to read %s: %v", field, err)
	}

	return &services.FileUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Data:     data,
	}, nil
}
