package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingAddress is embedded into the order row.
type ShippingAddress struct {
	Name       string `gorm:"column:ship_name" json:"name"`
	Line1      string `gorm:"column:ship_line1" json:"line1"`
	Line2      string `gorm:"column:ship_line2" json:"line2,omitempty"`
	City       string `gorm:"column:ship_city" json:"city"`
	State      string `gorm:"column:ship_state" json:"state"`
	PostalCode string `gorm:"column:ship_postal_code" json:"postal_code"`
	Country    string `gorm:"column:ship_country" json:"country"`
	Phone      string `gorm:"column:ship_phone" json:"phone,omitempty"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	TrackToken      string          `gorm:"uniqueIndex;not null" json:"-"`
	CheckoutKey     *string         `gorm:"uniqueIndex" json:"-"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	UserEmail       string          `json:"-"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Subtotal        float64         `gorm:"not null" json:"subtotal"`
	Discount        float64         `json:"discount"`
	Total           float64         `gorm:"not null" json:"total"`
	ShippingAddress ShippingAddress `gorm:"embedded" json:"shipping_address"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	OrderItems      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	StatusChanges   []StatusChange  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_changes,omitempty"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	SKU       string    `gorm:"not null;index" json:"sku"`
	Name      string    `gorm:"not null" json:"name"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// StatusChange is one row of the order's transition history. It is written in
// the same transaction as the status update itself.
type StatusChange struct {
	ID         uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to"`
	ChangedBy  string      `json:"changed_by,omitempty"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"at"`
}

// Migrate runs the order service schema migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Order{}, &OrderItem{}, &StatusChange{})
}
