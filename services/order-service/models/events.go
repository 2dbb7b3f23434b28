package models

import "time"

// CheckoutItem mirrors a cart line item on the checkout event.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// CheckoutEvent is what the cart service publishes when a user checks out.
type CheckoutEvent struct {
	Event           string          `json:"event"`
	IdempotencyKey  string          `json:"idempotency_key"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"user_email,omitempty"`
	Items           []CheckoutItem  `json:"items"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Timestamp       time.Time       `json:"timestamp"`
}

// OrderStatusEvent announces a status change to downstream consumers.
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

// StockRestoreItem is one line of a stock restoration event.
type StockRestoreItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// StockRestoreEvent asks the catalog service to return reserved stock.
type StockRestoreEvent struct {
	EventType string             `json:"event_type"`
	OrderID   string             `json:"order_id"`
	Items     []StockRestoreItem `json:"items"`
	Timestamp time.Time          `json:"timestamp"`
}
