package services

import (
	"context"
	"io"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// GalleryService manages the public gallery images
type GalleryService struct {
	galleryRepo GalleryRepo
	imageStore  ImageStore
}

// NewGalleryService creates a new gallery service
func NewGalleryService(galleryRepo GalleryRepo, imageStore ImageStore) *GalleryService {
	return &GalleryService{
		galleryRepo: galleryRepo,
		imageStore:  imageStore,
	}
}

// Upload stores a new gallery image
func (s *GalleryService) Upload(ctx context.Context, title, description, filename, contentType string, body io.Reader) (*models.GalleryImage, error) {
	url, blob, err := s.imageStore.Upload(ctx, blobName("gallery", filename), contentType, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload gallery image")
	}

	image := &models.GalleryImage{
		ID:          uuid.New(),
		URL:         url,
		Blob:        blob,
		Title:       title,
		Description: description,
	}
	if err := s.galleryRepo.Create(ctx, image); err != nil {
		if delErr := s.imageStore.Delete(ctx, blob); delErr != nil {
			log.Warn().Err(delErr).Str("blob", blob).Msg("Failed to delete orphaned gallery blob")
		}
		return nil, errors.Wrap(err, "failed to save gallery image")
	}

	log.Info().Str("image_id", image.ID.String()).Msg("Gallery image uploaded")
	return image, nil
}

// List returns all gallery images
func (s *GalleryService) List(ctx context.Context) ([]models.GalleryImage, error) {
	return s.galleryRepo.List(ctx)
}

// Delete removes a gallery image and its stored blob
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	image, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return ErrImageNotFound
	}

	if err := s.galleryRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete gallery image")
	}

	if image.Blob != "" {
		if err := s.imageStore.Delete(ctx, image.Blob); err != nil {
			log.Warn().Err(err).Str("blob", image.Blob).Msg("Failed to delete gallery blob")
		}
	}

	log.Info().Str("image_id", id.String()).Msg("Gallery image deleted")
	return nil
}
