package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/hymnal/internal/editor"
	"github.com/sukalov/hymnal/internal/hymns"
	"github.com/sukalov/hymnal/internal/logger"
	"github.com/sukalov/hymnal/internal/lyrics"
	"github.com/sukalov/hymnal/internal/songs"
)

var errUnavailable = errors.New("feature not configured")

func statusOf(err error) int {
	switch {
	case errors.Is(err, songs.ErrInvalidSong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, hymns.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrStaleSelection):
		return http.StatusConflict
	case errors.Is(err, editor.ErrEmptySelection),
		errors.Is(err, editor.ErrEmptyTone),
		errors.Is(err, editor.ErrSelectionSpansNodes),
		errors.Is(err, editor.ErrOverlappingAnnotation),
		errors.Is(err, editor.ErrEditorNotFound),
		errors.Is(err, lyrics.ErrUnsupportedSource):
		return http.StatusBadRequest
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("%s %s failed\nError: %v", c.Request.Method, c.Request.URL.Path, err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
