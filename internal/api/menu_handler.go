package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/services"
	"example.com/bistro/services/restaurant/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MenuHandler handles menu HTTP requests
type MenuHandler struct {
	menuService *services.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List handles GET /api/menu
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.menuService.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Count handles GET /api/menu/count
func (h *MenuHandler) Count(c *gin.Context) {
	count, err := h.menuService.Count(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Get handles GET /api/menu/:id
func (h *MenuHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	item, err := h.menuService.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create handles POST /api/menu
func (h *MenuHandler) Create(c *gin.Context) {
	var input services.CreateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	item, err := h.menuService.Create(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update handles PATCH /api/menu/:id
func (h *MenuHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	var input services.UpdateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	item, err := h.menuService.Update(c.Request.Context(), id, &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UploadImage handles POST /api/menu/:id/image
func (h *MenuHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

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

	item, err := h.menuService.UploadImage(c.Request.Context(), id, header.Filename, contentType, file)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/menu/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	if err := h.menuService.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
