package models

import "time"

// CartItem is one line of a cart, keyed by SKU.
type CartItem struct {
	SKU           string  `json:"sku" binding:"required"`
	ProductID     string  `json:"product_id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	UnitPrice     float64 `json:"unit_price" binding:"required,gt=0"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Image         string  `json:"image,omitempty"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	Size          string  `json:"size,omitempty"`
	Color         string  `json:"color,omitempty"`
	MaxStock      int     `json:"max_stock,omitempty"`
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Upsert adds an item to the cart. When the SKU already exists the
// quantities are summed and the pricing fields take the incoming values,
// so the line always reflects the latest known price.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].SKU != item.SKU {
			continue
		}
		existing := &c.Items[i]
		existing.Quantity += item.Quantity
		existing.UnitPrice = item.UnitPrice
		if item.OriginalPrice > 0 {
			existing.OriginalPrice = item.OriginalPrice
		}
		if item.Name != "" {
			existing.Name = item.Name
		}
		if item.Image != "" {
			existing.Image = item.Image
		}
		if item.MaxStock > 0 {
			existing.MaxStock = item.MaxStock
		}
		clampQuantity(existing)
		return
	}

	clampQuantity(&item)
	c.Items = append(c.Items, item)
}

// Merge folds a client-held cart into this one, line by line, with the same
// per-SKU semantics as Upsert.
func (c *Cart) Merge(items []CartItem) {
	for _, item := range items {
		c.Upsert(item)
	}
}

// SetQuantity replaces the quantity of a line. Returns false when the SKU is
// not in the cart.
func (c *Cart) SetQuantity(sku string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].SKU != sku {
			continue
		}
		c.Items[i].Quantity = quantity
		clampQuantity(&c.Items[i])
		return true
	}
	return false
}

// Remove drops a line by SKU. Returns false when the SKU is not in the cart.
func (c *Cart) Remove(sku string) bool {
	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal returns the cart total at current unit prices.
func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

func clampQuantity(item *CartItem) {
	if item.MaxStock > 0 && item.Quantity > item.MaxStock {
		item.Quantity = item.MaxStock
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
}
