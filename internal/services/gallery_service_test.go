package services

import (
	"context"
	"strings"
	"testing"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryRepo struct {
	mock.Mock
}

func (m *MockGalleryRepo) Create(ctx context.Context, image *models.GalleryImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockGalleryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepo) List(ctx context.Context) ([]models.GalleryImage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestGalleryUploadStoresImage(t *testing.T) {
	galleryRepo := new(MockGalleryRepo)
	imageStore := new(MockImageStore)

	imageStore.On("Upload", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://cdn.example.com/images/gallery/dish", "gallery/dish", nil)
	galleryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.GalleryImage")).Return(nil)

	service := NewGalleryService(galleryRepo, imageStore)

	image, err := service.Upload(context.Background(), "Signature Dish", "Our signature dish", "dish.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/images/gallery/dish", image.URL)
	require.Equal(t, "gallery/dish", image.Blob)
	require.Equal(t, "Signature Dish", image.Title)
	galleryRepo.AssertExpectations(t)
}

func TestGalleryUploadCleansUpOrphanOnCreateFailure(t *testing.T) {
	galleryRepo := new(MockGalleryRepo)
	imageStore := new(MockImageStore)

	imageStore.On("Upload", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://cdn.example.com/images/gallery/dish", "gallery/dish", nil)
	galleryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.GalleryImage")).Return(errors.New("db write failed"))
	imageStore.On("Delete", mock.Anything, "gallery/dish").Return(nil)

	service := NewGalleryService(galleryRepo, imageStore)

	_, err := service.Upload(context.Background(), "Signature Dish", "", "dish.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.Error(t, err)
	imageStore.AssertExpectations(t)
}

func TestGalleryDeleteRemovesBlob(t *testing.T) {
	galleryRepo := new(MockGalleryRepo)
	imageStore := new(MockImageStore)

	id := uuid.New()
	image := &models.GalleryImage{ID: id, URL: "https://cdn.example.com/images/gallery/dish", Blob: "gallery/dish"}

	galleryRepo.On("GetByID", mock.Anything, id).Return(image, nil)
	galleryRepo.On("Delete", mock.Anything, id).Return(nil)
	imageStore.On("Delete", mock.Anything, "gallery/dish").Return(nil)

	service := NewGalleryService(galleryRepo, imageStore)

	require.NoError(t, service.Delete(context.Background(), id))
	imageStore.AssertExpectations(t)
}

func TestGalleryDeleteNotFound(t *testing.T) {
	galleryRepo := new(MockGalleryRepo)
	id := uuid.New()
	galleryRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("record not found"))

	service := NewGalleryService(galleryRepo, new(MockImageStore))

	err := service.Delete(context.Background(), id)
	require.ErrorIs(t, err, ErrImageNotFound)
	galleryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
