package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	"gims/internal/infrastructure/files"
)

// FilesHandler handles document image upload and download.
type FilesHandler struct {
	*BaseHandler
	store *files.Store
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(base *BaseHandler, store *files.Store) *FilesHandler {
	return &FilesHandler{BaseHandler: base, store: store}
}

// Upload handles POST /files. The stored path goes into a document's
// imagePath field.
func (h *FilesHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file form field is required"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	path, err := h.store.Save(c.Request.Context(), fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "path": path})
}

// Download handles GET /files/:name.
func (h *FilesHandler) Download(c *gin.Context) {
	abs, contentType, err := h.store.Resolve(c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(abs)
}
