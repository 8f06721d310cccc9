package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/models"
	"github.com/mosiqa/backend/internal/repository"
	"github.com/mosiqa/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	fileStorage := services.NewFileStorageService(
		repository.NewAudioFileRepository(db),
		repository.NewCoverImageRepository(db),
		nil,
	)
	trackService := services.NewTrackService(repository.NewTrackRepository(db), fileStorage)

	trackHandler := NewTrackHandler(trackService)
	fileHandler := NewFileHandler(fileStorage)

	router := gin.New()
	api := router.Group("/api/v1")
	tracks := api.Group("/tracks")
	tracks.GET("", trackHandler.GetAllTracks)
	tracks.GET("/search", trackHandler.SearchTracks)
	tracks.GET("/category/:category", trackHandler.GetTracksByCategory)
	tracks.GET("/:id", trackHandler.GetTrackByID)
	tracks.POST("", trackHandler.CreateTrack)
	tracks.PUT("/:id", trackHandler.UpdateTrack)
	tracks.DELETE("/:id", trackHandler.DeleteTrack)
	files := api.Group("/files")
	files.GET("/audio/:id", fileHandler.GetAudioFile)
	files.GET("/cover/:id", fileHandler.GetCoverImage)
	return router
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// buildMultipart assembles a request body with an optional JSON metadata part
// and any number of file parts carrying explicit Content-Type headers.
func buildMultipart(t *testing.T, metadata any, parts ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if metadata != nil {
		raw, err := json.Marshal(metadata)
		require.NoError(t, err)
		require.NoError(t, writer.WriteField("metadata", string(raw)))
	}

	for _, part := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, part.field, part.filename))
		header.Set("Content-Type", part.contentType)
		fw, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = fw.Write(part.data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type trackResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Duration     float64 `json:"duration"`
	AudioFileID  *string `json:"audioFileId"`
	CoverImageID *string `json:"coverImageId"`
}

func createTestTrack(t *testing.T, router *gin.Engine, title, artist, category string, parts ...filePart) trackResponse {
	t.Helper()
	meta := map[string]any{
		"title":    title,
		"artist":   artist,
		"category": category,
		"duration": 200.0,
	}
	if len(parts) == 0 {
		parts = []filePart{{field: "audioFile", filename: "song.mp3", contentType: "audio/mpeg", data: []byte("mp3-bytes")}}
	}
	body, contentType := buildMultipart(t, meta, parts...)
	rec := doRequest(router, http.MethodPost, "/api/v1/tracks", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var track trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	return track
}

func TestCreateTrackEndpoint(t *testing.T) {
	router := newTestRouter(t)

	track := createTestTrack(t, router, "New Song", "New Artist", "pop")
	assert.NotEmpty(t, track.ID)
	assert.Equal(t, "New Song", track.Title)
	assert.Equal(t, "pop", track.Category)
	assert.Equal(t, 200.0, track.Duration)
	require.NotNil(t, track.AudioFileID)
	assert.Nil(t, track.CoverImageID)
}

func TestCreateTrackEndpoint_WithCover(t *testing.T) {
	router := newTestRouter(t)

	track := createTestTrack(t, router, "Covered", "Artist", "rock",
		filePart{field: "audioFile", filename: "song.mp3", contentType: "audio/mpeg", data: []byte("mp3")},
		filePart{field: "coverImage", filename: "cover.png", contentType: "image/png", data: []byte("png")},
	)
	require.NotNil(t, track.CoverImageID)

	rec := doRequest(router, http.MethodGet, "/api/v1/files/cover/"+*track.CoverImageID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=31536000", rec.Header().Get("Cache-Control"))
	assert.Equal(t, []byte("png"), rec.Body.Bytes())
}

func TestCreateTrackEndpoint_MissingAudio(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := buildMultipart(t, map[string]any{
		"title": "No Audio", "artist": "Artist", "category": "pop",
	})
	rec := doRequest(router, http.MethodPost, "/api/v1/tracks", body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Audio file is required", resp["error"])

	// Nothing was created.
	rec = doRequest(router, http.MethodGet, "/api/v1/tracks", nil, "")
	assert.Equal(t, "[]", rec.Body.String())
}

func TestCreateTrackEndpoint_UnknownCategory(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := buildMultipart(t, map[string]any{
		"title": "X", "artist": "Y", "category": "polka",
	}, filePart{field: "audioFile", filename: "a.mp3", contentType: "audio/mpeg", data: []byte("x")})
	rec := doRequest(router, http.MethodPost, "/api/v1/tracks", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown category")
}

func TestCreateTrackEndpoint_MissingMetadata(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := buildMultipart(t, nil,
		filePart{field: "audioFile", filename: "a.mp3", contentType: "audio/mpeg", data: []byte("x")})
	rec := doRequest(router, http.MethodPost, "/api/v1/tracks", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Metadata is required")
}

func TestGetTrackEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := createTestTrack(t, router, "Find Me", "Artist", "jazz")

	rec := doRequest(router, http.MethodGet, "/api/v1/tracks/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var track trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	assert.Equal(t, "Find Me", track.Title)
}

func TestGetTrackEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/tracks/5f9f6f64-0000-4000-8000-000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrackEndpoint_InvalidID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/v1/tracks/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid track ID")
}

func TestUpdateTrackEndpoint_MetadataOnly(t *testing.T) {
	router := newTestRouter(t)
	created := createTestTrack(t, router, "Before", "Artist", "pop")

	body, contentType := buildMultipart(t, map[string]any{"title": "After"})
	rec := doRequest(router, http.MethodPut, "/api/v1/tracks/"+created.ID, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var track trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	assert.Equal(t, "After", track.Title)
	assert.Equal(t, "Artist", track.Artist)
	assert.Equal(t, created.AudioFileID, track.AudioFileID)
}

func TestUpdateTrackEndpoint_ReplaceAudio(t *testing.T) {
	router := newTestRouter(t)
	created := createTestTrack(t, router, "Song", "Artist", "pop")
	require.NotNil(t, created.AudioFileID)
	oldID := *created.AudioFileID

	body, contentType := buildMultipart(t, nil,
		filePart{field: "audioFile", filename: "new.mp3", contentType: "audio/mpeg", data: []byte("new-bytes")})
	rec := doRequest(router, http.MethodPut, "/api/v1/tracks/"+created.ID, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var track trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	require.NotNil(t, track.AudioFileID)
	assert.NotEqual(t, oldID, *track.AudioFileID)

	// The new reference streams, the replaced asset is gone.
	rec = doRequest(router, http.MethodGet, "/api/v1/files/audio/"+*track.AudioFileID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("new-bytes"), rec.Body.Bytes())

	rec = doRequest(router, http.MethodGet, "/api/v1/files/audio/"+oldID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTrackEndpoint(t *testing.T) {
	router := newTestRouter(t)
	created := createTestTrack(t, router, "Doomed", "Artist", "metal")

	rec := doRequest(router, http.MethodDelete, "/api/v1/tracks/"+created.ID, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Row and asset are both gone; a second delete reports not found.
	rec = doRequest(router, http.MethodGet, "/api/v1/tracks/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(router, http.MethodGet, "/api/v1/files/audio/"+*created.AudioFileID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(router, http.MethodDelete, "/api/v1/tracks/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchTracksEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createTestTrack(t, router, "Midnight Drive", "Someone", "pop")
	createTestTrack(t, router, "Daylight", "Nobody", "pop")

	rec := doRequest(router, http.MethodGet, "/api/v1/tracks/search?q=midnight", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tracks []trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "Midnight Drive", tracks[0].Title)

	// A blank query is a list-all.
	rec = doRequest(router, http.MethodGet, "/api/v1/tracks/search", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	assert.Len(t, tracks, 2)
}

func TestGetTracksByCategoryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createTestTrack(t, router, "Rock Song", "A", "rock")
	createTestTrack(t, router, "Pop Song", "B", "pop")

	rec := doRequest(router, http.MethodGet, "/api/v1/tracks/category/rock", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tracks []trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "Rock Song", tracks[0].Title)

	rec = doRequest(router, http.MethodGet, "/api/v1/tracks/category/polka", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadFileUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing part yields nil upload", func(t *testing.T) {
		body, contentType := buildMultipart(t, map[string]any{"title": "x"})
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", body)
		c.Request.Header.Set("Content-Type", contentType)

		upload, err := readFileUpload(c, "audioFile")
		require.NoError(t, err)
		assert.Nil(t, upload)
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		// A part that starts but never reaches a closing boundary.
		raw := "--xyz\r\n" +
			"Content-Disposition: form-data; name=\"audioFile\"; filename=\"a.mp3\"\r\n" +
			"Content-Type: audio/mpeg\r\n\r\n" +
			"truncated"
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		c.Request.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		_, err := readFileUpload(c, "audioFile")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestGetAudioFileEndpoint_Headers(t *testing.T) {
	router := newTestRouter(t)
	created := createTestTrack(t, router, "Song", "Artist", "pop")

	rec := doRequest(router, http.MethodGet, "/api/v1/files/audio/"+*created.AudioFileID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="song.mp3"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, []byte("mp3-bytes"), rec.Body.Bytes())
}
