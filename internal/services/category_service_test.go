package services

import (
	"context"
	"testing"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateCategoryTrimsName(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByName", mock.Anything, "Desserts").Return(nil, errors.New("record not found"))
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).Return(nil)

	service := NewCategoryService(categoryRepo)

	category, err := service.Create(context.Background(), "  Desserts  ")
	require.NoError(t, err)
	require.Equal(t, "Desserts", category.Name)
	require.Equal(t, "active", category.Status)
	categoryRepo.AssertExpectations(t)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	existing := &models.Category{ID: uuid.New(), Name: "Desserts"}
	categoryRepo.On("GetByName", mock.Anything, "Desserts").Return(existing, nil)

	service := NewCategoryService(categoryRepo)

	_, err := service.Create(context.Background(), "Desserts")
	require.ErrorIs(t, err, ErrCategoryExists)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	service := NewCategoryService(new(MockCategoryRepo))

	_, err := service.Create(context.Background(), "   ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCategoryRejectsNameTakenByAnother(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	id := uuid.New()
	category := &models.Category{ID: id, Name: "Starters", Status: "active"}
	other := &models.Category{ID: uuid.New(), Name: "Mains", Status: "active"}

	categoryRepo.On("GetByID", mock.Anything, id).Return(category, nil)
	categoryRepo.On("GetByName", mock.Anything, "Mains").Return(other, nil)

	service := NewCategoryService(categoryRepo)

	name := "Mains"
	_, err := service.Update(context.Background(), id, &UpdateCategoryInput{Name: &name})
	require.ErrorIs(t, err, ErrCategoryExists)
}

func TestUpdateCategoryRejectsUnknownStatus(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	id := uuid.New()
	category := &models.Category{ID: id, Name: "Starters", Status: "active"}
	categoryRepo.On("GetByID", mock.Anything, id).Return(category, nil)

	service := NewCategoryService(categoryRepo)

	status := "archived"
	_, err := service.Update(context.Background(), id, &UpdateCategoryInput{Status: &status})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	id := uuid.New()
	categoryRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("record not found"))

	service := NewCategoryService(categoryRepo)

	err := service.Delete(context.Background(), id)
	require.ErrorIs(t, err, ErrCategoryNotFound)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
