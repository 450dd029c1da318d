package services

import (
	"context"
	"io"
	"time"

	"example.com/bistro/services/restaurant/internal/models"

	"github.com/google/uuid"
)

// OrderRepo is the persistence surface the order service depends on
type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListByDeliveryStaff(ctx context.Context, staffID uuid.UUID) ([]models.Order, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	AssignDelivery(ctx context.Context, orderID, staffID uuid.UUID) (*models.Order, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	DeliveredRevenueCents(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	ListUnindexedDelivered(ctx context.Context, limit int) ([]models.Order, error)
	MarkIndexed(ctx context.Context, id uuid.UUID) error
}

// MenuRepo is the persistence surface for menu items
type MenuRepo interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepo is the persistence surface for menu categories
type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GalleryRepo is the persistence surface for gallery images
type GalleryRepo interface {
	Create(ctx context.Context, image *models.GalleryImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryImage, error)
	List(ctx context.Context) ([]models.GalleryImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepo is the persistence surface for users and delivery staff
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	CountActiveDelivery(ctx context.Context) (int64, error)
}

// SettingsRepo is the persistence surface for the settings singleton
type SettingsRepo interface {
	Get(ctx context.Context) (*models.Settings, error)
	GetOrCreate(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	RecordDelivered(ctx context.Context, totalCents int64, at time.Time) error
	Reset(ctx context.Context) (*models.Settings, error)
}

// StaffRepo exposes the delivery staff operations the order service needs
type StaffRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

// RestaurantGate reports whether the restaurant currently accepts orders
type RestaurantGate interface {
	IsOpen(ctx context.Context) (bool, error)
}

// StatsRecorder folds delivered orders into the business stats rollup
type StatsRecorder interface {
	RecordDelivered(ctx context.Context, totalCents int64, at time.Time) error
}

// Broadcaster pushes order events to connected dashboard clients
type Broadcaster interface {
	Emit(event string, payload interface{})
}

// EventPublisher forwards order events to the message queue for async
// processing
type EventPublisher interface {
	SendMessage(ctx context.Context, body []byte) error
}

// OrderIndex indexes orders for search
type OrderIndex interface {
	IndexOrder(ctx context.Context, order *models.Order) error
}

// ImageStore uploads and deletes stored images
type ImageStore interface {
	Upload(ctx context.Context, name string, contentType string, body io.Reader) (url string, blobName string, err error)
	Delete(ctx context.Context, blobName string) error
}

// Cache is a best-effort key/value cache; a nil or disabled implementation
// is acceptable everywhere one is accepted
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
