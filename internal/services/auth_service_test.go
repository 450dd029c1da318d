package services

import (
	"context"
	"testing"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(userRepo UserRepo) *AuthService {
	return NewAuthService(userRepo, config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleAdmin,
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	service := newTestAuthService(userRepo)

	loggedIn, pair, err := service.Login(context.Background(), " Admin@Example.com ", "supersecret")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	identity, err := service.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, user.Email, identity.Email)
	require.Equal(t, models.RoleAdmin, identity.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	service := newTestAuthService(userRepo)

	_, _, err := service.Login(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("record not found"))

	service := newTestAuthService(userRepo)

	_, _, err := service.Login(context.Background(), "ghost@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "rider@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleDelivery,
		Status:   models.StaffInactive,
	}
	userRepo.On("GetByEmail", mock.Anything, "rider@example.com").Return(user, nil)

	service := newTestAuthService(userRepo)

	_, _, err := service.Login(context.Background(), "rider@example.com", "supersecret")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleAdmin,
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	service := newTestAuthService(userRepo)

	_, pair, err := service.Login(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)

	_, _, err = service.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleAdmin,
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	service := newTestAuthService(userRepo)

	_, pair, err := service.Login(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)

	refreshed, newPair, err := service.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, refreshed.ID)
	require.NotEmpty(t, newPair.AccessToken)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleAdmin,
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	service := newTestAuthService(userRepo)
	service.now = func() time.Time { return time.Now().Add(-time.Hour) }

	_, pair, err := service.Login(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	service := newTestAuthService(new(MockUserRepo))

	_, err := service.ValidateAccessToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRejectsForeignSignature(t *testing.T) {
	userRepo := new(MockUserRepo)
	user := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hashPassword(t, "supersecret"),
		Role:     models.RoleAdmin,
		Status:   models.StaffActive,
	}
	userRepo.On("GetByEmail", mock.Anything, "admin@example.com").Return(user, nil)

	issuer := NewAuthService(userRepo, config.AuthConfig{
		JWTSecret:       "other-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	verifier := newTestAuthService(userRepo)

	_, pair, err := issuer.Login(context.Background(), "admin@example.com", "supersecret")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
