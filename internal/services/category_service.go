package services

import (
	"context"
	"strings"

	"example.com/bistro/services/restaurant/internal/models"
	"example.com/bistro/services/restaurant/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CategoryService manages menu categories
type CategoryService struct {
	categoryRepo CategoryRepo
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo CategoryRepo) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create adds a category; names are unique
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(ErrValidation, "category name is required")
	}

	if _, err := s.categoryRepo.GetByName(ctx, name); err == nil {
		return nil, ErrCategoryExists
	}

	category := &models.Category{
		ID:     uuid.New(),
		Name:   name,
		Status: "active",
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, errors.Wrap(err, "failed to create category")
	}

	log.Info().Str("category", name).Msg("Category created")
	return category, nil
}

// List returns all categories
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategoryInput patches a category
type UpdateCategoryInput struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// Update renames or re-activates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.Wrap(ErrValidation, "category name is required")
		}
		if existing, err := s.categoryRepo.GetByName(ctx, name); err == nil && existing.ID != id {
			return nil, ErrCategoryExists
		}
		category.Name = name
	}
	if input.Status != nil {
		if *input.Status != "active" && *input.Status != "inactive" {
			return nil, errors.Wrap(ErrValidation, "status must be active or inactive")
		}
		category.Status = *input.Status
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to update category")
	}
	return category, nil
}

// Delete removes a category. Menu items keep their category string.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return ErrCategoryNotFound
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete category")
	}
	log.Info().Str("category_id", id.String()).Msg("Category deleted")
	return nil
}
