package models

import (
	"time"

	"github.com/google/uuid"
)

// SizeType names a set of size labels products can reference
// (e.g. "Shoes EU" with 38..46, "Apparel" with S..XXL).
type SizeType struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Sizes     []string  `gorm:"serializer:json" json:"sizes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SizeTypeRequest is the payload for creating or replacing a size type.
type SizeTypeRequest struct {
	Name  string   `json:"name" binding:"required,min=1,max=64"`
	Sizes []string `json:"sizes" binding:"required,min=1"`
}
