package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// NotificationLog is one delivery attempt record.
type NotificationLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventType string    `gorm:"not null;index" json:"event_type"`
	OrderID   string    `gorm:"index" json:"order_id,omitempty"`
	Recipient string    `gorm:"not null" json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `gorm:"not null" json:"status"`
	MessageID string    `json:"message_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NotificationFilter narrows log listings.
type NotificationFilter struct {
	EventType string
	Recipient string
	Status    string
	Page      int
	Limit     int
}

// OrderStatusEvent is the inbound Kafka payload from the order service.
type OrderStatusEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email,omitempty"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status"`
	Timestamp   time.Time `json:"timestamp"`
}
