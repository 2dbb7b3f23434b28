package models

import "time"

type WishlistItem struct {
	ProductID string    `json:"product_id" binding:"required"`
	SKU       string    `json:"sku,omitempty"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

type Wishlist struct {
	UserID    string         `json:"user_id"`
	Items     []WishlistItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Add appends a product once; re-adding an existing product is a no-op.
func (w *Wishlist) Add(item WishlistItem) bool {
	for _, existing := range w.Items {
		if existing.ProductID == item.ProductID {
			return false
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	w.Items = append(w.Items, item)
	return true
}

// Remove drops a product from the wishlist.
func (w *Wishlist) Remove(productID string) bool {
	for i, item := range w.Items {
		if item.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}
