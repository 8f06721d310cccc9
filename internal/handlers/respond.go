package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mosiqa/backend/internal/apperrors"
	"github.com/mosiqa/backend/internal/logger"
	"go.uber.org/zap"
)

// writeError maps the service error taxonomy onto HTTP statuses. Storage
// faults keep their detail in logs and return a generic body.
func writeError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	var notFoundErr *apperrors.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
