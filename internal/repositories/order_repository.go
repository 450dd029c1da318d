package repositories

import (
	"context"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// OrderRepository provides access to order data
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("DeliveryStaff")
}

// Create persists a new order with its line items
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

// GetByID loads an order with items and delivery staff
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.populated(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &order, nil
}

// GetByOrderNumber loads an order by its human-facing number
func (r *OrderRepository) GetByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := r.populated(ctx).First(&order, "order_number = ?", number).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &order, nil
}

// OrderNumberExists reports whether an order number is already taken
func (r *OrderRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check order number")
	}
	return count > 0, nil
}

// List returns all orders, newest first
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated(ctx).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// ListByStatus returns all orders in the given status, newest first
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by status")
	}
	return orders, nil
}

// ListByDeliveryStaff returns the orders assigned to a staff member
func (r *OrderRepository) ListByDeliveryStaff(ctx context.Context, staffID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated(ctx).
		Where("delivery_staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by delivery staff")
	}
	return orders, nil
}

// ListRecent returns the most recent orders
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated(ctx).Order("created_at DESC").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent orders")
	}
	return orders, nil
}

// UpdateStatus moves an order to the given status and returns it populated
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to update order status")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// AssignDelivery sets the delivery staff and moves the order out for delivery
func (r *OrderRepository) AssignDelivery(ctx context.Context, orderID, staffID uuid.UUID) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"delivery_staff_id": staffID,
			"status":            models.StatusOutForDelivery,
		})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to assign delivery staff")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, orderID)
}

// CountByStatus returns order counts grouped by status
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders by status")
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// DeliveredRevenueCents sums the totals of all delivered orders
func (r *OrderRepository) DeliveredRevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ?", models.StatusDelivered).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum delivered revenue")
	}
	return total, nil
}

// DeleteAll removes every order. Administrative escape hatch.
func (r *OrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Order{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete all orders")
	}
	return result.RowsAffected, nil
}

// ListUnindexedDelivered returns delivered orders missed by the indexing pipeline
func (r *OrderRepository) ListUnindexedDelivered(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.populated(ctx).
		Where("status = ? AND indexed = ?", models.StatusDelivered, false).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unindexed orders")
	}
	return orders, nil
}

// MarkIndexed records that an order document has been indexed
func (r *OrderRepository) MarkIndexed(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("indexed", true).Error
	if err != nil {
		return errors.Wrap(err, "failed to mark order indexed")
	}
	return nil
}
