package api

import (
	"net/http"

	"example.com/bistro/services/restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, refresh and logout
type AuthHandler struct {
	authService   *services.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login. Tokens are set as httpOnly cookies
// and also returned in the body for non-browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteValidationError(c, err)
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(RefreshTokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "refresh token required", Code: "UNAUTHORIZED"})
		return
	}

	user, pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		WriteError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

// Logout handles POST /api/auth/logout by clearing both cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetCookie(AccessTokenCookie, pair.AccessToken, int(pair.AccessTTL.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), "/", "", h.secureCookies, true)
}
