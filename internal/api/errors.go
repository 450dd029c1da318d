package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[error]errorMapping{
	services.ErrRestaurantClosed:    {http.StatusServiceUnavailable, "RESTAURANT_CLOSED"},
	services.ErrNoItems:             {http.StatusBadRequest, "VALIDATION_ERROR"},
	services.ErrInvalidQuantity:     {http.StatusBadRequest, "VALIDATION_ERROR"},
	services.ErrValidation:          {http.StatusBadRequest, "VALIDATION_ERROR"},
	services.ErrMenuItemNotFound:    {http.StatusNotFound, "MENU_ITEM_NOT_FOUND"},
	services.ErrMenuItemUnavailable: {http.StatusUnprocessableEntity, "MENU_ITEM_UNAVAILABLE"},
	services.ErrOrderNotFound:       {http.StatusNotFound, "ORDER_NOT_FOUND"},
	services.ErrInvalidStatus:       {http.StatusBadRequest, "INVALID_STATUS"},
	services.ErrStaffNotAvailable:   {http.StatusConflict, "STAFF_NOT_AVAILABLE"},
	services.ErrInvalidStaffID:      {http.StatusBadRequest, "INVALID_STAFF"},
	services.ErrUserNotFound:        {http.StatusNotFound, "USER_NOT_FOUND"},
	services.ErrEmailExists:         {http.StatusConflict, "EMAIL_EXISTS"},
	services.ErrInvalidCredentials:  {http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	services.ErrAccountInactive:     {http.StatusForbidden, "ACCOUNT_INACTIVE"},
	services.ErrInvalidToken:        {http.StatusUnauthorized, "INVALID_TOKEN"},
	services.ErrSettingsNotFound:    {http.StatusNotFound, "SETTINGS_NOT_FOUND"},
	services.ErrCategoryNotFound:    {http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	services.ErrCategoryExists:      {http.StatusConflict, "CATEGORY_EXISTS"},
	services.ErrImageNotFound:       {http.StatusNotFound, "IMAGE_NOT_FOUND"},
	services.ErrInvalidImage:        {http.StatusBadRequest, "INVALID_IMAGE"},
}

// WriteError maps a service error to an HTTP response
func WriteError(c *gin.Context, err error) {
	for sentinel, mapping := range errorMappings {
		if errors.Is(err, sentinel) {
			c.JSON(mapping.status, ErrorResponse{
				Message: sentinel.Error(),
				Code:    mapping.code,
			})
			return
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "internal server error",
		Code:    "INTERNAL_ERROR",
	})
}

// WriteValidationError reports a malformed request body or parameter
func WriteValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: err.Error(),
		Code:    "VALIDATION_ERROR",
	})
}
