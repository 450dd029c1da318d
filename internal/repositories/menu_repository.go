package repositories

import (
	"context"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MenuRepository provides access to menu items
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create persists a new menu item
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to create menu item")
	}
	return nil
}

// GetByID loads a menu item by id
func (r *MenuRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &item, nil
}

// List returns all menu items
func (r *MenuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list menu items")
	}
	return items, nil
}

// Update saves changed menu item fields
func (r *MenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return errors.Wrap(err, "failed to update menu item")
	}
	return nil
}

// Delete removes a menu item
func (r *MenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete menu item")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of menu items
func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count menu items")
	}
	return count, nil
}
