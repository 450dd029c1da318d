package services

import "github.com/pkg/errors"

var (
	ErrRestaurantClosed    = errors.New("restaurant is currently closed")
	ErrNoItems             = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("item quantity must be at least 1")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrStaffNotAvailable   = errors.New("delivery staff is not available")
	ErrInvalidStaffID      = errors.New("invalid delivery staff")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrImageNotFound       = errors.New("image not found")
	ErrInvalidImage        = errors.New("invalid image upload")
	ErrValidation          = errors.New("validation failed")
)
