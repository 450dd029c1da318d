package services

import (
	"context"
	"testing"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role int) ([]models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepo) SetStatusIf(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) CountActiveDelivery(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateDeliveryStaffNormalizesEmailAndHashesPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByEmail", mock.Anything, "rider@example.com").Return(nil, errors.New("record not found"))
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	service := NewUserService(userRepo)

	user, err := service.CreateDeliveryStaff(context.Background(), &CreateStaffInput{
		FullName: "Sam Rider",
		Email:    "  Rider@Example.COM ",
		Password: "supersecret",
		Phone:    "+1555111111",
	})

	require.NoError(t, err)
	require.Equal(t, "rider@example.com", user.Email)
	require.Equal(t, models.RoleDelivery, user.Role)
	require.Equal(t, models.StaffActive, user.Status)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")))
	userRepo.AssertExpectations(t)
}

func TestCreateDeliveryStaffRejectsDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	existing := &models.User{ID: uuid.New(), Email: "rider@example.com"}
	userRepo.On("GetByEmail", mock.Anything, "rider@example.com").Return(existing, nil)

	service := NewUserService(userRepo)

	_, err := service.CreateDeliveryStaff(context.Background(), &CreateStaffInput{
		FullName: "Sam Rider",
		Email:    "rider@example.com",
		Password: "supersecret",
		Phone:    "+1555111111",
	})

	require.ErrorIs(t, err, ErrEmailExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSetStaffStatusRejectsBusy(t *testing.T) {
	service := NewUserService(new(MockUserRepo))

	_, err := service.SetStaffStatus(context.Background(), uuid.New(), models.StaffBusy)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetStaffStatusUpdatesActiveInactive(t *testing.T) {
	userRepo := new(MockUserRepo)
	id := uuid.New()
	user := &models.User{ID: id, Role: models.RoleDelivery, Status: models.StaffActive}

	userRepo.On("GetByID", mock.Anything, id).Return(user, nil)
	userRepo.On("SetStatus", mock.Anything, id, models.StaffInactive).Return(nil)

	service := NewUserService(userRepo)

	_, err := service.SetStaffStatus(context.Background(), id, models.StaffInactive)
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestDeleteStaffRefusesAdminAccounts(t *testing.T) {
	userRepo := new(MockUserRepo)
	id := uuid.New()
	admin := &models.User{ID: id, Role: models.RoleAdmin}
	userRepo.On("GetByID", mock.Anything, id).Return(admin, nil)

	service := NewUserService(userRepo)

	err := service.DeleteStaff(context.Background(), id)
	require.ErrorIs(t, err, ErrValidation)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpdateStaffRehashesPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	id := uuid.New()
	user := &models.User{ID: id, Role: models.RoleDelivery, Password: "old-hash"}

	userRepo.On("GetByID", mock.Anything, id).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	service := NewUserService(userRepo)

	newPassword := "freshsecret"
	updated, err := service.UpdateStaff(context.Background(), id, &UpdateStaffInput{Password: &newPassword})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte(newPassword)))
	userRepo.AssertExpectations(t)
}
