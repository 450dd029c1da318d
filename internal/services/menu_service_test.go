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

func TestCreateMenuItemDefaultsToAvailable(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	menuRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.MenuItem")).Return(nil)

	service := NewMenuService(menuRepo, new(MockImageStore), nil)

	item, err := service.Create(context.Background(), &CreateMenuItemInput{
		Name:        "Burger",
		Description: "House burger",
		PriceCents:  1250,
		Category:    "Mains",
	})

	require.NoError(t, err)
	require.True(t, item.Available)
	require.Equal(t, int64(1250), item.PriceCents)
	menuRepo.AssertExpectations(t)
}

func TestUpdateMenuItemRejectsNegativePrice(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Burger", PriceCents: 1250, Available: true}
	menuRepo.On("GetByID", mock.Anything, id).Return(item, nil)

	service := NewMenuService(menuRepo, new(MockImageStore), nil)

	price := int64(-1)
	_, err := service.Update(context.Background(), id, &UpdateMenuItemInput{PriceCents: &price})
	require.ErrorIs(t, err, ErrValidation)
	menuRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateMenuItemPatchesOnlyProvidedFields(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Burger", Description: "House burger", PriceCents: 1250, Available: true}

	menuRepo.On("GetByID", mock.Anything, id).Return(item, nil)
	menuRepo.On("Update", mock.Anything, item).Return(nil)

	service := NewMenuService(menuRepo, new(MockImageStore), nil)

	available := false
	updated, err := service.Update(context.Background(), id, &UpdateMenuItemInput{Available: &available})
	require.NoError(t, err)
	require.False(t, updated.Available)
	require.Equal(t, "Burger", updated.Name)
	require.Equal(t, int64(1250), updated.PriceCents)
}

func TestUploadMenuImageReplacesOldBlob(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	imageStore := new(MockImageStore)
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Burger", ImageURL: "https://cdn.example.com/images/menu/old", ImageBlob: "menu/old"}

	menuRepo.On("GetByID", mock.Anything, id).Return(item, nil)
	imageStore.On("Upload", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://cdn.example.com/images/menu/new", "menu/new", nil)
	menuRepo.On("Update", mock.Anything, item).Return(nil)
	imageStore.On("Delete", mock.Anything, "menu/old").Return(nil)

	service := NewMenuService(menuRepo, imageStore, nil)

	updated, err := service.UploadImage(context.Background(), id, "burger.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "menu/new", updated.ImageBlob)
	imageStore.AssertExpectations(t)
}

func TestDeleteMenuItemRemovesStoredImage(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	imageStore := new(MockImageStore)
	id := uuid.New()
	item := &models.MenuItem{ID: id, Name: "Burger", ImageBlob: "menu/burger"}

	menuRepo.On("GetByID", mock.Anything, id).Return(item, nil)
	menuRepo.On("Delete", mock.Anything, id).Return(nil)
	imageStore.On("Delete", mock.Anything, "menu/burger").Return(nil)

	service := NewMenuService(menuRepo, imageStore, nil)

	require.NoError(t, service.Delete(context.Background(), id))
	imageStore.AssertExpectations(t)
}

func TestGetMenuItemNotFound(t *testing.T) {
	menuRepo := new(MockMenuRepo)
	id := uuid.New()
	menuRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("record not found"))

	service := NewMenuService(menuRepo, new(MockImageStore), nil)

	_, err := service.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrMenuItemNotFound)
}
