package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UsersHandler handles delivery staff management HTTP requests
type UsersHandler struct {
	userService *services.UserService
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(userService *services.UserService) *UsersHandler {
	return &UsersHandler{userService: userService}
}

// List handles GET /api/users/delivery
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.userService.ListDeliveryStaff(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /api/users/delivery
func (h *UsersHandler) Create(c *gin.Context) {
	var input services.CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	user, err := h.userService.CreateDeliveryStaff(c.Request.Context(), &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me handles GET /api/users/me
func (h *UsersHandler) Me(c *gin.Context) {
	identity := CallerIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required", Code: "UNAUTHORIZED"})
		return
	}

	user, err := h.userService.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PATCH /api/users/delivery/:id
func (h *UsersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	var input services.UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		WriteValidationError(c, err)
		return
	}

	user, err := h.userService.UpdateStaff(c.Request.Context(), id, &input)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetStatusRequest toggles a staff account between active and inactive
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles PATCH /api/users/delivery/:id/status
func (h *UsersHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	user, err := h.userService.SetStaffStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/delivery/:id
func (h *UsersHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		WriteValidationError(c, err)
		return
	}

	if err := h.userService.DeleteStaff(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CountActive handles GET /api/users/delivery/active-count
func (h *UsersHandler) CountActive(c *gin.Context) {
	count, err := h.userService.CountActiveDelivery(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": count})
}
