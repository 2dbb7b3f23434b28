package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert_NewSKU(t *testing.T) {
	cart := &Cart{UserID: "u1"}

	cart.Upsert(CartItem{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 19.99, Quantity: 2})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpsert_ExistingSKUSumsQuantityKeepsLatestPrice(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 19.99, Quantity: 2})

	// The price changed between the two adds.
	cart.Upsert(CartItem{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 14.99, Quantity: 3})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 14.99, cart.Items[0].UnitPrice)
}

func TestUpsert_ClampsToMaxStock(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "JEANS-32", ProductID: "p2", Name: "Jeans", UnitPrice: 49.0, Quantity: 3, MaxStock: 4})

	cart.Upsert(CartItem{SKU: "JEANS-32", ProductID: "p2", Name: "Jeans", UnitPrice: 49.0, Quantity: 5, MaxStock: 4})

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestUpsert_DistinctSKUsStaySeparate(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 19.99, Quantity: 1})
	cart.Upsert(CartItem{SKU: "TSHIRT-RED-L", ProductID: "p1", Name: "Red Tee", UnitPrice: 19.99, Quantity: 1})

	assert.Len(t, cart.Items, 2)
}

func TestMerge(t *testing.T) {
	server := &Cart{UserID: "u1"}
	server.Upsert(CartItem{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 19.99, Quantity: 1})

	// Client cart held from before login, with a stale price and an extra line.
	server.Merge([]CartItem{
		{SKU: "TSHIRT-RED-M", ProductID: "p1", Name: "Red Tee", UnitPrice: 17.99, Quantity: 2},
		{SKU: "CAP-BLACK", ProductID: "p3", Name: "Cap", UnitPrice: 9.99, Quantity: 1},
	})

	require.Len(t, server.Items, 2)
	assert.Equal(t, 3, server.Items[0].Quantity)
	assert.Equal(t, 17.99, server.Items[0].UnitPrice)
	assert.Equal(t, "CAP-BLACK", server.Items[1].SKU)
}

func TestSetQuantity(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "JEANS-32", ProductID: "p2", Name: "Jeans", UnitPrice: 49.0, Quantity: 1, MaxStock: 4})

	assert.True(t, cart.SetQuantity("JEANS-32", 9))
	assert.Equal(t, 4, cart.Items[0].Quantity)

	assert.False(t, cart.SetQuantity("UNKNOWN", 1))
}

func TestRemove(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "A", ProductID: "p1", Name: "A", UnitPrice: 1, Quantity: 1})
	cart.Upsert(CartItem{SKU: "B", ProductID: "p2", Name: "B", UnitPrice: 1, Quantity: 1})

	assert.True(t, cart.Remove("A"))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "B", cart.Items[0].SKU)

	assert.False(t, cart.Remove("A"))
}

func TestSubtotal(t *testing.T) {
	cart := &Cart{UserID: "u1"}
	cart.Upsert(CartItem{SKU: "A", ProductID: "p1", Name: "A", UnitPrice: 10.5, Quantity: 2})
	cart.Upsert(CartItem{SKU: "B", ProductID: "p2", Name: "B", UnitPrice: 5, Quantity: 1})

	assert.InDelta(t, 26.0, cart.Subtotal(), 0.001)
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	w := &Wishlist{UserID: "u1"}

	assert.True(t, w.Add(WishlistItem{ProductID: "p1"}))
	assert.False(t, w.Add(WishlistItem{ProductID: "p1"}))
	assert.Len(t, w.Items, 1)

	assert.True(t, w.Remove("p1"))
	assert.False(t, w.Remove("p1"))
}
