package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"example.com/bistro/services/restaurant/config"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxImageSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateImage checks an upload's content type and declared size
func ValidateImage(contentType string, size int64) error {
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return errors.Errorf("unsupported image type %q", contentType)
	}
	if size > maxImageSize {
		return errors.Errorf("image exceeds maximum size of %d bytes", int64(maxImageSize))
	}
	return nil
}

// BlobStore stores uploaded images in Azure Blob Storage
type BlobStore struct {
	client    *azblob.Client
	container string
	baseURL   string
	enabled   bool
}

// NewBlobStore creates a new blob store. Without a connection string
// uploads are rejected, which keeps local development usable without an
// Azure account.
func NewBlobStore(cfg config.StorageConfig) (*BlobStore, error) {
	if cfg.ConnectionString == "" {
		log.Warn().Msg("Blob storage connection string not provided, image uploads will be disabled")
		return &BlobStore{enabled: false}, nil
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create blob storage client")
	}

	return &BlobStore{
		client:    client,
		container: cfg.Container,
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		enabled:   true,
	}, nil
}

// Upload streams one image into the container and returns its public URL
// and blob name
func (s *BlobStore) Upload(ctx context.Context, name string, contentType string, body io.Reader) (string, string, error) {
	if !s.enabled {
		return "", "", errors.New("blob storage is disabled")
	}

	_, err := s.client.UploadStream(ctx, s.container, name, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to upload blob")
	}

	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.container, name)
	log.Debug().Str("blob", name).Msg("Blob uploaded")
	return url, name, nil
}

// Delete removes one blob from the container
func (s *BlobStore) Delete(ctx context.Context, name string) error {
	if !s.enabled || name == "" {
		return nil
	}

	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return errors.Wrap(err, "failed to delete blob")
	}
	log.Debug().Str("blob", name).Msg("Blob deleted")
	return nil
}
