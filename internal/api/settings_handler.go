package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/storage"

	"github.com/gin-gonic/gin"
)

// SettingsHandler handles restaurant settings HTTP requests
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetOpenRequest toggles order intake
type SetOpenRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

// SetOpen handles PATCH /api/settings/open
func (h *SettingsHandler) SetOpen(c *gin.Context) {
	var req SetOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.SetOpen(c.Request.Context(), *req.IsOpen)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateGeneral handles PATCH /api/settings/general
func (h *SettingsHandler) UpdateGeneral(c *gin.Context) {
	var input services.UpdateGeneralInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateGeneral(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateContact handles PATCH /api/settings/contact
func (h *SettingsHandler) UpdateContact(c *gin.Context) {
	var input services.UpdateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateContact(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateOwner handles PATCH /api/settings/owner
func (h *SettingsHandler) UpdateOwner(c *gin.Context) {
	var input services.UpdateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateOwner(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateHero handles PATCH /api/settings/hero
func (h *SettingsHandler) UpdateHero(c *gin.Context) {
	var input services.UpdateHeroInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateHero(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateInstagram handles PATCH /api/settings/instagram
func (h *SettingsHandler) UpdateInstagram(c *gin.Context) {
	var input services.UpdateInstagramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateInstagram(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateHours handles PUT /api/settings/hours
func (h *SettingsHandler) UpdateHours(c *gin.Context) {
	var hours models.WeekHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		WriteValidationError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateHours(c.Request.Context(), hours)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UploadImage handles POST /api/settings/images/:kind for the logo,
// cover image, owner photo, hero carousel and instagram gallery
func (h *SettingsHandler) UploadImage(c *gin.Context) {
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

	ctx := c.Request.Context()
	var settings *models.Settings
	switch c.Param("kind") {
	case "logo":
		settings, err = h.settingsService.UploadLogo(ctx, header.Filename, contentType, file)
	case "cover":
		settings, err = h.settingsService.UploadCoverImage(ctx, header.Filename, contentType, file)
	case "owner":
		settings, err = h.settingsService.UploadOwnerPhoto(ctx, header.Filename, contentType, file)
	case "hero":
		settings, err = h.settingsService.AddHeroImage(ctx, header.Filename, contentType, file)
	case "instagram":
		settings, err = h.settingsService.AddInstagramImage(ctx, header.Filename, contentType, file)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "unknown image kind", Code: "VALIDATION_ERROR"})
		return
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RemoveImageRequest names the blob to remove from a carousel
type RemoveImageRequest struct {
	Blob string `json:"blob" binding:"required"`
}

// RemoveImage handles DELETE /api/settings/images/:kind for the hero and
// instagram carousels
func (h *SettingsHandler) RemoveImage(c *gin.Context) {
	var req RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	var settings *models.Settings
	var err error
	switch c.Param("kind") {
	case "hero":
		settings, err = h.settingsService.RemoveHeroImage(ctx, req.Blob)
	case "instagram":
		settings, err = h.settingsService.RemoveInstagramImage(ctx, req.Blob)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "unknown image kind", Code: "VALIDATION_ERROR"})
		return
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Stats handles GET /api/settings/stats
func (h *SettingsHandler) Stats(c *gin.Context) {
	stats, err := h.settingsService.Stats(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Reset handles POST /api/settings/reset
func (h *SettingsHandler) Reset(c *gin.Context) {
	settings, err := h.settingsService.Reset(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
