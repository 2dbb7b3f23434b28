package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the catalog tree. SortOrder controls sibling display
// order and is rewritten in bulk by the reorder endpoint.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Slug      string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Image     string         `gorm:"type:varchar(512)" json:"image,omitempty"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Children []*Category `gorm:"-" json:"children,omitempty"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,min=2,max=128"`
	Image    string     `json:"image"`
	ParentID *uuid.UUID `json:"parent_id"`
	Active   bool       `json:"active"`
}

// ReorderEntry assigns a new sort order to one category.
type ReorderEntry struct {
	ID        uuid.UUID `json:"id" binding:"required"`
	SortOrder int       `json:"sort_order" binding:"gte=0"`
}

// ReorderRequest is the payload for the bulk reorder endpoint.
type ReorderRequest struct {
	Entries []ReorderEntry `json:"entries" binding:"required,min=1,dive"`
}
