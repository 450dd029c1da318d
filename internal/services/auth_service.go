package services

import (
	"context"
	"strings"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// AuthService issues and validates the access/refresh token pair
type AuthService struct {
	userRepo        UserRepo
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepo, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		secret:          []byte(cfg.JWTSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		now:             time.Now,
	}
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// Identity is the authenticated caller extracted from a token
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   int
}

// Login authenticates by email and password. Inactive accounts cannot
// log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Status == models.StaffInactive {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Int("role", user.Role).
		Msg("User logged in")

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if kind, _ := claims["kind"].(string); kind != tokenKindRefresh {
		return nil, nil, ErrInvalidToken
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}
	if user.Status == models.StaffInactive {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ValidateAccessToken parses an access token and returns the caller
// identity
func (s *AuthService) ValidateAccessToken(tokenString string) (*Identity, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if kind, _ := claims["kind"].(string); kind != tokenKindAccess {
		return nil, ErrInvalidToken
	}
	return identityFromClaims(claims)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, tokenKindAccess, s.accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenKindRefresh, s.refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    s.accessTokenTTL,
		RefreshTTL:   s.refreshTokenTTL,
	}, nil
}

func (s *AuthService) signToken(user *models.User, kind string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"kind":  kind,
		"iat":   s.now().Unix(),
		"exp":   s.now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func identityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, ok := claims["role"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UserID: userID,
		Email:  email,
		Role:   int(role),
	}, nil
}
