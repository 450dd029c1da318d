package repositories

import (
	"context"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GalleryRepository provides access to gallery images
type GalleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// Create persists a new gallery image
func (r *GalleryRepository) Create(ctx context.Context, image *models.GalleryImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return errors.Wrap(err, "failed to create gallery image")
	}
	return nil
}

// GetByID loads a gallery image by id
func (r *GalleryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error) {
	var image models.GalleryImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &image, nil
}

// List returns all gallery images, newest first
func (r *GalleryRepository) List(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list gallery images")
	}
	return images, nil
}

// Delete removes a gallery image
func (r *GalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.GalleryImage{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete gallery image")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
