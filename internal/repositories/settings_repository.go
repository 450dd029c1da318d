package repositories

import (
	"context"
	"time"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository provides access to the restaurant settings singleton
// and its business-stats counters.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("MonthlyStats", func(db *gorm.DB) *gorm.DB {
			return db.Order("year, month")
		}).
		Preload("YearlyStats", func(db *gorm.DB) *gorm.DB {
			return db.Order("year")
		})
}

// Get loads the settings singleton. ErrNotFound if it was never created.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.populated(ctx).First(&settings).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &settings, nil
}

// GetOrCreate loads the settings singleton, creating it with defaults on
// first access.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*models.Settings, error) {
	settings, err := r.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
		// A concurrent first access may have created the row already
		if existing, getErr := r.Get(ctx); getErr == nil {
			return existing, nil
		}
		return nil, errors.Wrap(err, "failed to create default settings")
	}
	return defaults, nil
}

// Save persists the whole settings row
func (r *SettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return errors.Wrap(err, "failed to save settings")
	}
	return nil
}

// UpdateFields patches specific settings columns
func (r *SettingsRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Settings{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		return errors.Wrap(err, "failed to update settings")
	}
	return nil
}

// RecordDelivered adds one delivered order's total to the cumulative,
// monthly and yearly counters. The increments are expression updates and
// the month/year rows are conflict-target upserts, so concurrent delivered
// transitions cannot lose updates to each other.
func (r *SettingsRepository) RecordDelivered(ctx context.Context, totalCents int64, at time.Time) error {
	settings, err := r.GetOrCreate(ctx)
	if err != nil {
		return err
	}

	year, month := at.Year(), int(at.Month())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Settings{}).
			Where("id = ?", settings.ID).
			Updates(map[string]interface{}{
				"cumulative_revenue_cents": gorm.Expr("cumulative_revenue_cents + ?", totalCents),
				"cumulative_orders":        gorm.Expr("cumulative_orders + 1"),
			}).Error
		if err != nil {
			return errors.Wrap(err, "failed to update cumulative stats")
		}

		monthly := models.MonthlyStat{
			ID:           uuid.New(),
			SettingsID:   settings.ID,
			Year:         year,
			Month:        month,
			RevenueCents: totalCents,
			Orders:       1,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "settings_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"revenue_cents": gorm.Expr("monthly_stats.revenue_cents + ?", totalCents),
				"orders":        gorm.Expr("monthly_stats.orders + 1"),
			}),
		}).Create(&monthly).Error
		if err != nil {
			return errors.Wrap(err, "failed to upsert monthly stats")
		}

		yearly := models.YearlyStat{
			ID:           uuid.New(),
			SettingsID:   settings.ID,
			Year:         year,
			RevenueCents: totalCents,
			Orders:       1,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "settings_id"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"revenue_cents": gorm.Expr("yearly_stats.revenue_cents + ?", totalCents),
				"orders":        gorm.Expr("yearly_stats.orders + 1"),
			}),
		}).Create(&yearly).Error
		if err != nil {
			return errors.Wrap(err, "failed to upsert yearly stats")
		}

		return nil
	})
}

// Reset deletes the singleton with its stat rows and recreates it with
// defaults
func (r *SettingsRepository) Reset(ctx context.Context) (*models.Settings, error) {
	settings, err := r.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return r.GetOrCreate(ctx)
	}
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("settings_id = ?", settings.ID).Delete(&models.MonthlyStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("settings_id = ?", settings.ID).Delete(&models.YearlyStat{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Settings{}, "id = ?", settings.ID).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete settings")
	}

	return r.GetOrCreate(ctx)
}
