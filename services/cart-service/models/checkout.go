package models

import "time"

// ShippingAddress travels on the checkout event for the order service.
type ShippingAddress struct {
	Name       string `json:"name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone,omitempty"`
}

// CheckoutItem is the event-side projection of a cart line.
type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// CheckoutEvent is published to Kafka when a user checks out.
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

// CheckoutItems converts cart lines into their event form.
func CheckoutItems(items []CartItem) []CheckoutItem {
	out := make([]CheckoutItem, 0, len(items))
	for _, item := range items {
		out = append(out, CheckoutItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return out
}
