package api

import (
	"net/http"
	"strings"
	"time"

	"example.com/bistro/services/restaurant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// AccessTokenCookie carries the short-lived access token
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie carries the long-lived refresh token
	RefreshTokenCookie = "refreshToken"

	identityKey = "identity"
)

// RequestLogger logs every request with latency and status
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}

// CORS allows the configured dashboard origins
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	allowAll := false
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequireAuth validates the access token cookie and stores the caller
// identity on the context. A bearer token is accepted as a fallback for
// non-browser clients.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "authentication required",
				Code:    "UNAUTHORIZED",
			})
			return
		}

		identity, err := auth.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "invalid or expired token",
				Code:    "INVALID_TOKEN",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole restricts a route to callers with one of the given roles.
// Must run after RequireAuth.
func RequireRole(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CallerIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "authentication required",
				Code:    "UNAUTHORIZED",
			})
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "insufficient permissions",
			Code:    "FORBIDDEN",
		})
	}
}

// CallerIdentity returns the authenticated caller, or nil on public
// routes
func CallerIdentity(c *gin.Context) *services.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}
