package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepo) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepo) Save(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockSettingsRepo) RecordDelivered(ctx context.Context, totalCents int64, at time.Time) error {
	args := m.Called(ctx, totalCents, at)
	return args.Error(0)
}

func (m *MockSettingsRepo) Reset(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, string, error) {
	args := m.Called(ctx, name, contentType, body)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockImageStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func TestUpdateGeneralPatchesOnlyProvidedFields(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	settings := models.DefaultSettings()

	name := "Casa Nueva"
	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)
	settingsRepo.On("UpdateFields", mock.Anything, settings.ID, map[string]interface{}{"name": name}).Return(nil)
	settingsRepo.On("Get", mock.Anything).Return(settings, nil)

	service := NewSettingsService(settingsRepo, new(MockImageStore), nil)

	_, err := service.UpdateGeneral(context.Background(), &UpdateGeneralInput{Name: &name})
	require.NoError(t, err)
	settingsRepo.AssertExpectations(t)
}

func TestUpdateGeneralWithNoFieldsSkipsWrite(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	settings := models.DefaultSettings()
	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)

	service := NewSettingsService(settingsRepo, new(MockImageStore), nil)

	result, err := service.UpdateGeneral(context.Background(), &UpdateGeneralInput{})
	require.NoError(t, err)
	require.Equal(t, settings.ID, result.ID)
	settingsRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadLogoDeletesPreviousBlob(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	imageStore := new(MockImageStore)

	settings := models.DefaultSettings()
	settings.Logo = "https://cdn.example.com/images/logo/old"
	settings.LogoBlob = "logo/old"

	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)
	imageStore.On("Upload", mock.Anything, mock.AnythingOfType("string"), "image/png", mock.Anything).
		Return("https://cdn.example.com/images/logo/new", "logo/new", nil)
	settingsRepo.On("Save", mock.Anything, settings).Return(nil)
	imageStore.On("Delete", mock.Anything, "logo/old").Return(nil)

	service := NewSettingsService(settingsRepo, imageStore, nil)

	updated, err := service.UploadLogo(context.Background(), "logo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/images/logo/new", updated.Logo)
	require.Equal(t, "logo/new", updated.LogoBlob)
	imageStore.AssertExpectations(t)
}

func TestAddInstagramImageRespectsLimit(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	imageStore := new(MockImageStore)

	settings := models.DefaultSettings()
	settings.InstagramMax = 2
	require.NoError(t, settings.SetInstagramImages([]models.StoredImage{
		{URL: "https://cdn.example.com/images/instagram/a", Blob: "instagram/a"},
		{URL: "https://cdn.example.com/images/instagram/b", Blob: "instagram/b"},
	}))

	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)

	service := NewSettingsService(settingsRepo, imageStore, nil)

	_, err := service.AddInstagramImage(context.Background(), "c.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.ErrorIs(t, err, ErrValidation)
	imageStore.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveHeroImageDeletesBlob(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	imageStore := new(MockImageStore)

	settings := models.DefaultSettings()
	require.NoError(t, settings.SetHeroImages([]models.StoredImage{
		{URL: "https://cdn.example.com/images/hero/a", Blob: "hero/a"},
		{URL: "https://cdn.example.com/images/hero/b", Blob: "hero/b"},
	}))

	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)
	settingsRepo.On("Save", mock.Anything, settings).Return(nil)
	imageStore.On("Delete", mock.Anything, "hero/a").Return(nil)

	service := NewSettingsService(settingsRepo, imageStore, nil)

	updated, err := service.RemoveHeroImage(context.Background(), "hero/a")
	require.NoError(t, err)

	remaining, err := updated.HeroImageList()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "hero/b", remaining[0].Blob)
	imageStore.AssertExpectations(t)
}

func TestRemoveHeroImageUnknownBlob(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	settings := models.DefaultSettings()
	settingsRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)

	service := NewSettingsService(settingsRepo, new(MockImageStore), nil)

	_, err := service.RemoveHeroImage(context.Background(), "hero/missing")
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestRecordDeliveredDelegatesToRepo(t *testing.T) {
	settingsRepo := new(MockSettingsRepo)
	at := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	settingsRepo.On("RecordDelivered", mock.Anything, int64(2500), at).Return(nil)

	service := NewSettingsService(settingsRepo, new(MockImageStore), nil)

	require.NoError(t, service.RecordDelivered(context.Background(), 2500, at))
	settingsRepo.AssertExpectations(t)
}
