package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GalleryHandler handles gallery HTTP requests
type GalleryHandler struct {
	galleryService *services.GalleryService
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// List handles GET /api/gallery
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.galleryService.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// Upload handles POST /api/gallery
func (h *GalleryHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		WriteValidationError(c, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, header.Size); err != nil {
		WriteValidationError(c, err)
		return
	}

	image, err := h.galleryService.Upload(
		c.Request.Context(),
		c.PostForm("title"),
		c.PostForm("description"),
		header.Filename,
		contentType,
		file,
	)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// Delete handles DELETE /api/gallery/:id
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	if err := h.galleryService.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
