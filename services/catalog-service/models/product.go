package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. SKU is the public variant identifier
// used by carts and orders; ID is internal.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	OriginalPrice float64        `gorm:"not null;default:0" json:"original_price"`
	Stock         int            `gorm:"not null;default:0" json:"stock"`
	Images        []string       `gorm:"serializer:json" json:"images"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	SizeTypeID    *uuid.UUID     `gorm:"type:uuid" json:"size_type_id,omitempty"`
	Visible       bool           `gorm:"not null;default:true" json:"visible"`
	Featured      bool           `gorm:"not null;default:false" json:"featured"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateProductRequest is the payload for creating a product.
type CreateProductRequest struct {
	SKU           string     `json:"sku" binding:"required,min=3,max=64"`
	Name          string     `json:"name" binding:"required,max=255"`
	Description   string     `json:"description"`
	Price         float64    `json:"price" binding:"required,gt=0"`
	OriginalPrice float64    `json:"original_price" binding:"gte=0"`
	Stock         int        `json:"stock" binding:"gte=0"`
	Images        []string   `json:"images"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SizeTypeID    *uuid.UUID `json:"size_type_id"`
	Featured      bool       `json:"featured"`
}

// UpdateProductRequest carries partial updates; nil fields are untouched.
type UpdateProductRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Price         *float64   `json:"price" binding:"omitempty,gt=0"`
	OriginalPrice *float64   `json:"original_price" binding:"omitempty,gte=0"`
	Stock         *int       `json:"stock" binding:"omitempty,gte=0"`
	Images        *[]string  `json:"images"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SizeTypeID    *uuid.UUID `json:"size_type_id"`
	Featured      *bool      `json:"featured"`
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	CategoryID  *uuid.UUID
	Featured    *bool
	MinPrice    *float64
	MaxPrice    *float64
	Search      string
	SortParam   string
	OnlyVisible bool
}

// StockRestoreEvent is consumed from the order service when an order enters
// CANCELLED or RETURNED and its reserved stock must be returned to the shelf.
type StockRestoreEvent struct {
	EventType string             `json:"event_type"`
	OrderID   string             `json:"order_id"`
	Items     []StockRestoreItem `json:"items"`
	Timestamp time.Time          `json:"timestamp"`
}

type StockRestoreItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
