package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mosiqa/backend/internal/services"
)

type FileHandler struct {
	fileStorage *services.FileStorageService
}

func NewFileHandler(fileStorage *services.FileStorageService) *FileHandler {
	return &FileHandler{fileStorage: fileStorage}
}

// GetAudioFile serves the raw audio payload inline, with the stored MIME
// type and original filename for the player.
// GET /api/v1/files/audio/:id
func (h *FileHandler) GetAudioFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}

	audioFile, err := h.fileStorage.GetAudioFile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", audioFile.Name))
	c.Header("Accept-Ranges", "bytes")
	c.Data(http.StatusOK, audioFile.MimeType, audioFile.Data)
}

// GetCoverImage serves the cover payload with a long-lived cache directive;
// cover rows are immutable so clients may cache them indefinitely.
// GET /api/v1/files/cover/:id
func (h *FileHandler) GetCoverImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file ID"})
		return
	}

	coverImage, err := h.fileStorage.GetCoverImage(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "max-age=31536000")
	c.Data(http.StatusOK, coverImage.MimeType, coverImage.Data)
}
