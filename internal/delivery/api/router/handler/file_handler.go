package handler

import (
	"net/http"
	"strings"

	"carbonledger/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FileHandler streams stored uploads back to clients.
type FileHandler struct {
	storage service.FileStorage
}

// NewFileHandler is the constructor for FileHandler.
func NewFileHandler(storage service.FileStorage) *FileHandler {
	return &FileHandler{storage: storage}
}

// ServeFile serves the object named by the wildcard path.
func (h *FileHandler) ServeFile(c echo.Context) error {
	key := strings.TrimPrefix(c.Param("*"), "/")
	if key == "" || strings.Contains(key, "..") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file key")
	}

	reader, contentType, err := h.storage.Open(c.Request().Context(), key)
	if err != nil {
		return errors.WithStack(err)
	}
	defer reader.Close()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	return errors.WithStack(c.Stream(http.StatusOK, contentType, reader))
}
