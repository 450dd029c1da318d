package services

import (
	"context"
	"io"
	"time"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	menuCacheKey = "menu:list"
	menuCacheTTL = 2 * time.Minute
)

// MenuService manages the menu catalogue
type MenuService struct {
	menuRepo   MenuRepo
	imageStore ImageStore
	cache      Cache
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo MenuRepo, imageStore ImageStore, cache Cache) *MenuService {
	return &MenuService{
		menuRepo:   menuRepo,
		imageStore: imageStore,
		cache:      cache,
	}
}

// CreateMenuItemInput is the payload for creating a menu item
type CreateMenuItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	PriceCents  int64   `json:"price_cents" binding:"required,min=0"`
	Category    string  `json:"category" binding:"required"`
	Available   *bool   `json:"available"`
	Rating      float32 `json:"rating"`
}

// Create adds a menu item. New items are available unless stated otherwise.
func (s *MenuService) Create(ctx context.Context, input *CreateMenuItemInput) (*models.MenuItem, error) {
	available := true
	if input.Available != nil {
		available = *input.Available
	}

	item := &models.MenuItem{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Category:    input.Category,
		Available:   available,
		Rating:      input.Rating,
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to create menu item")
	}

	log.Info().
		Str("menu_item_id", item.ID.String()).
		Str("name", item.Name).
		Msg("Menu item created")

	s.invalidate(ctx)
	return item, nil
}

// Get loads one menu item
func (s *MenuService) Get(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// List returns all menu items
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	if s.cache != nil {
		var cached []models.MenuItem
		if err := s.cache.Get(ctx, menuCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, menuCacheKey, items, menuCacheTTL); err != nil {
			log.Debug().Err(err).Msg("Failed to cache menu list")
		}
	}
	return items, nil
}

// UpdateMenuItemInput patches a menu item
type UpdateMenuItemInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	PriceCents  *int64   `json:"price_cents"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	Rating      *float32 `json:"rating"`
}

// Update patches a menu item. Order history keeps its price snapshots.
func (s *MenuService) Update(ctx context.Context, id uuid.UUID, input *UpdateMenuItemInput) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMenuItemNotFound
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, errors.Wrap(ErrValidation, "price must not be negative")
		}
		item.PriceCents = *input.PriceCents
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if input.Rating != nil {
		item.Rating = *input.Rating
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to update menu item")
	}

	s.invalidate(ctx)
	return item, nil
}

// UploadImage replaces a menu item's image, deleting the previous blob
func (s *MenuService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMenuItemNotFound
	}

	url, blob, err := s.imageStore.Upload(ctx, blobName("menu", filename), contentType, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload menu item image")
	}

	oldBlob := item.ImageBlob
	item.ImageURL = url
	item.ImageBlob = blob

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to update menu item")
	}

	if oldBlob != "" {
		if err := s.imageStore.Delete(ctx, oldBlob); err != nil {
			log.Warn().Err(err).Str("blob", oldBlob).Msg("Failed to delete old menu image")
		}
	}

	s.invalidate(ctx)
	return item, nil
}

// Delete removes a menu item and its stored image
func (s *MenuService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return ErrMenuItemNotFound
	}

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete menu item")
	}

	if item.ImageBlob != "" {
		if err := s.imageStore.Delete(ctx, item.ImageBlob); err != nil {
			log.Warn().Err(err).Str("blob", item.ImageBlob).Msg("Failed to delete menu image")
		}
	}

	log.Info().Str("menu_item_id", id.String()).Msg("Menu item deleted")
	s.invalidate(ctx)
	return nil
}

// Count returns the number of menu items
func (s *MenuService) Count(ctx context.Context) (int64, error) {
	return s.menuRepo.Count(ctx)
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, menuCacheKey); err != nil {
		log.Debug().Err(err).Msg("Failed to invalidate menu cache")
	}
}
