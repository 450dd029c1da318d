package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	settingsCacheKey = "settings"
	settingsCacheTTL = 5 * time.Minute
)

// SettingsService manages the restaurant settings singleton and exposes
// the open/closed gate used by order intake.
type SettingsService struct {
	settingsRepo SettingsRepo
	imageStore   ImageStore
	cache        Cache
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo SettingsRepo, imageStore ImageStore, cache Cache) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		imageStore:   imageStore,
		cache:        cache,
	}
}

// Get returns the settings, creating them with defaults on first access
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	if s.cache != nil {
		var cached models.Settings
		if err := s.cache.Get(ctx, settingsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheSettings(ctx, settings)
	return settings, nil
}

// IsOpen reports whether the restaurant currently accepts orders
func (s *SettingsService) IsOpen(ctx context.Context) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsOpen, nil
}

// SetOpen toggles order intake
func (s *SettingsService) SetOpen(ctx context.Context, open bool) (*models.Settings, error) {
	return s.patch(ctx, map[string]interface{}{"is_open": open})
}

// UpdateGeneralInput patches the identity block of the settings
type UpdateGeneralInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Story       *string `json:"story"`
	Currency    *string `json:"currency"`
	Timezone    *string `json:"timezone"`
	Language    *string `json:"language"`
}

// UpdateGeneral patches the restaurant identity fields
func (s *SettingsService) UpdateGeneral(ctx context.Context, input *UpdateGeneralInput) (*models.Settings, error) {
	fields := map[string]interface{}{}
	setIf(fields, "name", input.Name)
	setIf(fields, "description", input.Description)
	setIf(fields, "story", input.Story)
	setIf(fields, "currency", input.Currency)
	setIf(fields, "timezone", input.Timezone)
	setIf(fields, "language", input.Language)
	return s.patch(ctx, fields)
}

// UpdateContactInput patches the contact block of the settings
type UpdateContactInput struct {
	ContactPhone   *string `json:"contact_phone"`
	SupportPhone   *string `json:"support_phone"`
	ContactEmail   *string `json:"contact_email"`
	ContactWebsite *string `json:"contact_website"`
	ContactAddress *string `json:"contact_address"`
}

// UpdateContact patches the contact fields
func (s *SettingsService) UpdateContact(ctx context.Context, input *UpdateContactInput) (*models.Settings, error) {
	fields := map[string]interface{}{}
	setIf(fields, "contact_phone", input.ContactPhone)
	setIf(fields, "support_phone", input.SupportPhone)
	setIf(fields, "contact_email", input.ContactEmail)
	setIf(fields, "contact_website", input.ContactWebsite)
	setIf(fields, "contact_address", input.ContactAddress)
	return s.patch(ctx, fields)
}

// UpdateOwnerInput patches the owner block of the settings
type UpdateOwnerInput struct {
	OwnerName  *string `json:"owner_name"`
	OwnerBio   *string `json:"owner_bio"`
	OwnerTitle *string `json:"owner_title"`
}

// UpdateOwner patches the owner profile fields
func (s *SettingsService) UpdateOwner(ctx context.Context, input *UpdateOwnerInput) (*models.Settings, error) {
	fields := map[string]interface{}{}
	setIf(fields, "owner_name", input.OwnerName)
	setIf(fields, "owner_bio", input.OwnerBio)
	setIf(fields, "owner_title", input.OwnerTitle)
	return s.patch(ctx, fields)
}

// UpdateHeroInput patches the landing hero block
type UpdateHeroInput struct {
	HeroTitle       *string `json:"hero_title"`
	HeroSubtitle    *string `json:"hero_subtitle"`
	HeroDescription *string `json:"hero_description"`
}

// UpdateHero patches the hero section text
func (s *SettingsService) UpdateHero(ctx context.Context, input *UpdateHeroInput) (*models.Settings, error) {
	fields := map[string]interface{}{}
	setIf(fields, "hero_title", input.HeroTitle)
	setIf(fields, "hero_subtitle", input.HeroSubtitle)
	setIf(fields, "hero_description", input.HeroDescription)
	return s.patch(ctx, fields)
}

// UpdateInstagramInput patches the instagram section
type UpdateInstagramInput struct {
	InstagramTitle    *string `json:"instagram_title"`
	InstagramSubtitle *string `json:"instagram_subtitle"`
	InstagramMax      *int    `json:"instagram_max"`
}

// UpdateInstagram patches the instagram section text and limit
func (s *SettingsService) UpdateInstagram(ctx context.Context, input *UpdateInstagramInput) (*models.Settings, error) {
	fields := map[string]interface{}{}
	setIf(fields, "instagram_title", input.InstagramTitle)
	setIf(fields, "instagram_subtitle", input.InstagramSubtitle)
	if input.InstagramMax != nil {
		fields["instagram_max"] = *input.InstagramMax
	}
	return s.patch(ctx, fields)
}

// UpdateHours replaces the weekly opening hours
func (s *SettingsService) UpdateHours(ctx context.Context, hours models.WeekHours) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if err := settings.SetWeekHours(hours); err != nil {
		return nil, errors.Wrap(err, "failed to encode opening hours")
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return settings, nil
}

// UploadLogo replaces the restaurant logo, deleting the previous blob
func (s *SettingsService) UploadLogo(ctx context.Context, filename, contentType string, body io.Reader) (*models.Settings, error) {
	return s.uploadImage(ctx, "logo", filename, contentType, body,
		func(st *models.Settings) (string, *string, *string) {
			return st.LogoBlob, &st.Logo, &st.LogoBlob
		})
}

// UploadCoverImage replaces the cover image, deleting the previous blob
func (s *SettingsService) UploadCoverImage(ctx context.Context, filename, contentType string, body io.Reader) (*models.Settings, error) {
	return s.uploadImage(ctx, "cover", filename, contentType, body,
		func(st *models.Settings) (string, *string, *string) {
			return st.CoverImageBlob, &st.CoverImage, &st.CoverImageBlob
		})
}

// UploadOwnerPhoto replaces the owner photo, deleting the previous blob
func (s *SettingsService) UploadOwnerPhoto(ctx context.Context, filename, contentType string, body io.Reader) (*models.Settings, error) {
	return s.uploadImage(ctx, "owner", filename, contentType, body,
		func(st *models.Settings) (string, *string, *string) {
			return st.OwnerPhotoBlob, &st.OwnerPhoto, &st.OwnerPhotoBlob
		})
}

// AddHeroImage uploads and appends a hero carousel image
func (s *SettingsService) AddHeroImage(ctx context.Context, filename, contentType string, body io.Reader) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	url, blob, err := s.imageStore.Upload(ctx, blobName("hero", filename), contentType, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload hero image")
	}

	images, err := settings.HeroImageList()
	if err != nil {
		return nil, err
	}
	images = append(images, models.StoredImage{URL: url, Blob: blob})
	if err := settings.SetHeroImages(images); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return settings, nil
}

// RemoveHeroImage removes one hero carousel image and deletes its blob
func (s *SettingsService) RemoveHeroImage(ctx context.Context, blob string) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	images, err := settings.HeroImageList()
	if err != nil {
		return nil, err
	}

	kept := images[:0]
	found := false
	for _, img := range images {
		if img.Blob == blob {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, ErrImageNotFound
	}

	if err := settings.SetHeroImages(kept); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	s.deleteBlob(ctx, blob)
	s.invalidate(ctx)
	return settings, nil
}

// AddInstagramImage uploads and appends an instagram gallery image,
// bounded by the configured maximum
func (s *SettingsService) AddInstagramImage(ctx context.Context, filename, contentType string, body io.Reader) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	images, err := settings.InstagramImageList()
	if err != nil {
		return nil, err
	}
	if settings.InstagramMax > 0 && len(images) >= settings.InstagramMax {
		return nil, errors.Wrapf(ErrValidation, "instagram gallery is limited to %d images", settings.InstagramMax)
	}

	url, blob, err := s.imageStore.Upload(ctx, blobName("instagram", filename), contentType, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload instagram image")
	}

	images = append(images, models.StoredImage{URL: url, Blob: blob})
	if err := settings.SetInstagramImages(images); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return settings, nil
}

// RemoveInstagramImage removes one instagram image and deletes its blob
func (s *SettingsService) RemoveInstagramImage(ctx context.Context, blob string) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	images, err := settings.InstagramImageList()
	if err != nil {
		return nil, err
	}

	kept := images[:0]
	found := false
	for _, img := range images {
		if img.Blob == blob {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, ErrImageNotFound
	}

	if err := settings.SetInstagramImages(kept); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	s.deleteBlob(ctx, blob)
	s.invalidate(ctx)
	return settings, nil
}

// Reset discards the settings and all accumulated stats and restores the
// defaults
func (s *SettingsService) Reset(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settingsRepo.Reset(ctx)
	if err != nil {
		return nil, err
	}
	log.Warn().Msg("Settings reset to defaults")
	s.invalidate(ctx)
	return settings, nil
}

// BusinessStats is the dashboard rollup view
type BusinessStats struct {
	CumulativeRevenueCents int64                `json:"cumulative_revenue_cents"`
	CumulativeOrders       int64                `json:"cumulative_orders"`
	MonthlyStats           []models.MonthlyStat `json:"monthly_stats"`
	YearlyStats            []models.YearlyStat  `json:"yearly_stats"`
}

// Stats returns the accumulated delivered-order counters
func (s *SettingsService) Stats(ctx context.Context) (*BusinessStats, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return &BusinessStats{
		CumulativeRevenueCents: settings.CumulativeRevenueCents,
		CumulativeOrders:       settings.CumulativeOrders,
		MonthlyStats:           settings.MonthlyStats,
		YearlyStats:            settings.YearlyStats,
	}, nil
}

// RecordDelivered folds one delivered order into the rollup
func (s *SettingsService) RecordDelivered(ctx context.Context, totalCents int64, at time.Time) error {
	if err := s.settingsRepo.RecordDelivered(ctx, totalCents, at); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SettingsService) patch(ctx context.Context, fields map[string]interface{}) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return settings, nil
	}
	if err := s.settingsRepo.UpdateFields(ctx, settings.ID, fields); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.settingsRepo.Get(ctx)
}

type blobSelector func(*models.Settings) (oldBlob string, url *string, blob *string)

func (s *SettingsService) uploadImage(ctx context.Context, kind, filename, contentType string, body io.Reader, pick blobSelector) (*models.Settings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	url, blob, err := s.imageStore.Upload(ctx, blobName(kind, filename), contentType, body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload %s image", kind)
	}

	oldBlob, urlField, blobField := pick(settings)
	*urlField = url
	*blobField = blob

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	if oldBlob != "" {
		s.deleteBlob(ctx, oldBlob)
	}
	s.invalidate(ctx)
	return settings, nil
}

func (s *SettingsService) deleteBlob(ctx context.Context, blob string) {
	if err := s.imageStore.Delete(ctx, blob); err != nil {
		log.Warn().Err(err).Str("blob", blob).Msg("Failed to delete stored image")
	}
}

func (s *SettingsService) cacheSettings(ctx context.Context, settings *models.Settings) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, settingsCacheKey, settings, settingsCacheTTL); err != nil {
		log.Debug().Err(err).Msg("Failed to cache settings")
	}
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate settings cache")
	}
}

func setIf(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}

func blobName(kind, filename string) string {
	return fmt.Sprintf("%s/%s-%s", kind, uuid.New().String(), filename)
}
