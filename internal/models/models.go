package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order lifecycle states
const (
	StatusPending        OrderStatus = "Pending"
	StatusPreparing      OrderStatus = "Preparing"
	StatusReady          OrderStatus = "Ready"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid order status, in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Delivery staff availability states
const (
	StaffActive   = "active"
	StaffInactive = "inactive"
	StaffBusy     = "busy"
)

// User role codes, carried over from the admin dashboard contract
const (
	RoleAdmin    = 1012
	RoleDelivery = 1001
)

// MenuItem is a dish on the restaurant menu
type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	PriceCents  int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	Category    string    `gorm:"not null" json:"category"`
	ImageURL    string    `json:"image"`
	ImageBlob   string    `json:"-"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	Rating      float32   `gorm:"default:0" json:"rating"`
}

// Category groups menu items
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Status    string    `gorm:"not null;default:active" json:"status"`
}

// GalleryImage is an image shown on the public gallery page
type GalleryImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	URL         string    `gorm:"not null" json:"url"`
	Blob        string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// User is an admin or delivery-staff account
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Phone     string    `gorm:"not null" json:"phone"`
	Role      int       `gorm:"not null;default:1001" json:"role"`
	Status    string    `gorm:"not null;default:active" json:"status"`
	JoinDate  time.Time `gorm:"autoCreateTime" json:"join_date"`
}

// OrderItem is a line on an order. Name and price are snapshots taken at
// order time; later menu edits must not change historical orders.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name       string    `gorm:"not null" json:"name"`
	Quantity   int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	PriceCents int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
}

// Order is a customer order. The customer block is a denormalized snapshot,
// not a reference.
type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	OrderNumber     string      `gorm:"not null;uniqueIndex" json:"order_number"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"not null" json:"customer_phone"`
	CustomerAddress string      `gorm:"not null" json:"customer_address"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalCents      int64       `gorm:"not null;check:total_cents >= 0" json:"total_cents"`
	Status          OrderStatus `gorm:"not null;default:Pending" json:"status"`
	DeliveryStaffID *uuid.UUID  `gorm:"type:uuid" json:"delivery_staff_id"`
	DeliveryStaff   *User       `gorm:"foreignKey:DeliveryStaffID" json:"delivery_staff,omitempty"`
	Notes           string      `json:"notes"`
	Indexed         bool        `gorm:"not null;default:false" json:"-"`
}

// DisplayOrderNumber is the customer-facing form of the order number
func (o *Order) DisplayOrderNumber() string {
	return "#" + o.OrderNumber
}

// Settings is the restaurant configuration and business-stats aggregate.
// Exactly one row exists; it is created lazily with defaults.
type Settings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	IsOpen bool `gorm:"not null;default:true" json:"is_open"`

	Name           string `gorm:"not null" json:"name"`
	Logo           string `json:"logo"`
	LogoBlob       string `json:"-"`
	CoverImage     string `json:"cover_image"`
	CoverImageBlob string `json:"-"`
	Description    string `gorm:"not null" json:"description"`
	Story          string `gorm:"not null" json:"story"`

	HeroTitle       string `gorm:"default:'Welcome to Our Restaurant'" json:"hero_title"`
	HeroSubtitle    string `gorm:"default:'Experience the finest dining in town'" json:"hero_subtitle"`
	HeroDescription string `gorm:"default:'Discover our amazing menu and exceptional service'" json:"hero_description"`
	HeroImages      []byte `gorm:"type:jsonb" json:"hero_images"`

	InstagramTitle    string `gorm:"default:'Instagram Gallery'" json:"instagram_title"`
	InstagramSubtitle string `gorm:"default:'Follow us on Instagram'" json:"instagram_subtitle"`
	InstagramMax      int    `gorm:"default:6" json:"instagram_max"`
	InstagramImages   []byte `gorm:"type:jsonb" json:"instagram_images"`

	OwnerName      string `gorm:"not null" json:"owner_name"`
	OwnerPhoto     string `json:"owner_photo"`
	OwnerPhotoBlob string `json:"-"`
	OwnerBio       string `gorm:"not null" json:"owner_bio"`
	OwnerTitle     string `gorm:"not null" json:"owner_title"`

	ContactPhone   string `gorm:"not null" json:"contact_phone"`
	SupportPhone   string `json:"support_phone"`
	ContactEmail   string `gorm:"not null" json:"contact_email"`
	ContactWebsite string `json:"contact_website"`
	ContactAddress string `gorm:"not null" json:"contact_address"`

	Hours []byte `gorm:"type:jsonb" json:"hours"`

	Currency string `gorm:"default:USD" json:"currency"`
	Timezone string `gorm:"default:UTC" json:"timezone"`
	Language string `gorm:"default:en" json:"language"`

	CumulativeRevenueCents int64 `gorm:"not null;default:0" json:"cumulative_revenue_cents"`
	CumulativeOrders       int64 `gorm:"not null;default:0" json:"cumulative_orders"`

	MonthlyStats []MonthlyStat `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE" json:"monthly_stats"`
	YearlyStats  []YearlyStat  `gorm:"foreignKey:SettingsID;constraint:OnDelete:CASCADE" json:"yearly_stats"`
}

// MonthlyStat accumulates delivered-order revenue for one calendar month
type MonthlyStat struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	SettingsID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_stat,priority:1" json:"-"`
	Year         int       `gorm:"not null;uniqueIndex:idx_monthly_stat,priority:2" json:"year"`
	Month        int       `gorm:"not null;uniqueIndex:idx_monthly_stat,priority:3" json:"month"`
	RevenueCents int64     `gorm:"not null;default:0" json:"revenue_cents"`
	Orders       int64     `gorm:"not null;default:0" json:"orders"`
}

// YearlyStat accumulates delivered-order revenue for one calendar year
type YearlyStat struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	SettingsID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_yearly_stat,priority:1" json:"-"`
	Year         int       `gorm:"not null;uniqueIndex:idx_yearly_stat,priority:2" json:"year"`
	RevenueCents int64     `gorm:"not null;default:0" json:"revenue_cents"`
	Orders       int64     `gorm:"not null;default:0" json:"orders"`
}

// DayHours is one day's opening window
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WeekHours maps lowercase weekday names to opening windows
type WeekHours map[string]DayHours

// DefaultWeekHours returns the default operating hours
func DefaultWeekHours() WeekHours {
	hours := WeekHours{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday"} {
		hours[day] = DayHours{Open: "11:00", Close: "22:00"}
	}
	hours["friday"] = DayHours{Open: "11:00", Close: "23:00"}
	hours["saturday"] = DayHours{Open: "10:00", Close: "23:00"}
	hours["sunday"] = DayHours{Open: "10:00", Close: "21:00"}
	return hours
}

// StoredImage is one uploaded image reference kept inside a jsonb column
type StoredImage struct {
	URL  string `json:"url"`
	Blob string `json:"blob"`
}

// HeroImageList decodes the hero carousel images
func (s *Settings) HeroImageList() ([]StoredImage, error) {
	return decodeImageList(s.HeroImages)
}

// SetHeroImages encodes the hero carousel images
func (s *Settings) SetHeroImages(images []StoredImage) error {
	data, err := encodeImageList(images)
	if err != nil {
		return err
	}
	s.HeroImages = data
	return nil
}

// InstagramImageList decodes the instagram gallery images
func (s *Settings) InstagramImageList() ([]StoredImage, error) {
	return decodeImageList(s.InstagramImages)
}

// SetInstagramImages encodes the instagram gallery images
func (s *Settings) SetInstagramImages(images []StoredImage) error {
	data, err := encodeImageList(images)
	if err != nil {
		return err
	}
	s.InstagramImages = data
	return nil
}

// WeekHoursValue decodes the operating hours, falling back to defaults
func (s *Settings) WeekHoursValue() WeekHours {
	if len(s.Hours) == 0 {
		return DefaultWeekHours()
	}
	var hours WeekHours
	if err := json.Unmarshal(s.Hours, &hours); err != nil {
		return DefaultWeekHours()
	}
	return hours
}

// SetWeekHours encodes the operating hours
func (s *Settings) SetWeekHours(hours WeekHours) error {
	data, err := json.Marshal(hours)
	if err != nil {
		return err
	}
	s.Hours = data
	return nil
}

func decodeImageList(data []byte) ([]StoredImage, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var list []StoredImage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func encodeImageList(list []StoredImage) ([]byte, error) {
	if list == nil {
		list = []StoredImage{}
	}
	return json.Marshal(list)
}

// DefaultSettings returns the baked-in settings used when the singleton is
// first created or reset
func DefaultSettings() *Settings {
	s := &Settings{
		ID:          uuid.New(),
		IsOpen:      true,
		Name:        "Delicious Bites Restaurant",
		Description: "Welcome to Delicious Bites, where culinary excellence meets warm hospitality.",
		Story:       "Founded by Chef Maria Rodriguez in 2010, Delicious Bites started as a small family kitchen with big dreams.",

		HeroTitle:       "Welcome to Our Restaurant",
		HeroSubtitle:    "Experience the finest dining in town",
		HeroDescription: "Discover our amazing menu and exceptional service",

		InstagramTitle:    "Instagram Gallery",
		InstagramSubtitle: "Follow us on Instagram",
		InstagramMax:      6,

		OwnerName:  "Maria Rodriguez",
		OwnerBio:   "With over 20 years of culinary experience, I believe that food is more than sustenance - it's a way to connect hearts and create lasting memories.",
		OwnerTitle: "Head Chef & Owner",

		ContactPhone:   "+1 (555) 123-4567",
		SupportPhone:   "0666554488",
		ContactEmail:   "info@deliciousbites.com",
		ContactWebsite: "www.deliciousbites.com",
		ContactAddress: "123 Culinary Street, Food District, City 12345",

		Currency: "USD",
		Timezone: "UTC",
		Language: "en",
	}
	s.SetWeekHours(DefaultWeekHours())
	s.SetHeroImages(nil)
	s.SetInstagramImages(nil)
	return s
}

// SetupModels runs the schema migrations
func SetupModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&MenuItem{},
		&Category{},
		&GalleryImage{},
		&User{},
		&Order{},
		&OrderItem{},
		&Settings{},
		&MonthlyStat{},
		&YearlyStat{},
	)
}
