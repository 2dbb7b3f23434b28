package controllers

import (
	"net/http"
	"time"

	"github.com/rishavk21/UrbanCart-backend/common/middleware"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/database"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/kafka"
	"github.com/rishavk21/UrbanCart-backend/services/cart-service/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// CartController handles HTTP requests for cart and wishlist operations.
type CartController struct {
	repo     *database.CartRepository
	producer kafka.CheckoutPublisher
	logger   *zap.Logger
}

func NewCartController(repo *database.CartRepository, producer kafka.CheckoutPublisher, logger *zap.Logger) *CartController {
	return &CartController{repo: repo, producer: producer, logger: logger}
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items. Adding an existing SKU sums quantities
// and keeps the incoming unit price.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	cart.Upsert(item)

	if err := cc.repo.SaveCart(c.Request.Context(), cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PATCH /cart/items/:sku.
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}

	if !cart.SetQuantity(c.Param("sku"), req.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	if err := cc.repo.SaveCart(c.Request.Context(), cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:sku.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}

	if !cart.Remove(c.Param("sku")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	if err := cc.repo.SaveCart(c.Request.Context(), cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := cc.repo.DeleteCart(c.Request.Context(), userID); err != nil {
		cc.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// MergeCart handles POST /cart/merge. The client-held cart from before login
// is folded into the server copy with per-SKU semantics.
func (cc *CartController) MergeCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Items []models.CartItem `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	cart.Merge(req.Items)

	if err := cc.repo.SaveCart(c.Request.Context(), cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Checkout handles POST /cart/checkout. Guarded by an idempotency key so a
// retried request publishes at most one checkout event.
func (cc *CartController) Checkout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		IdempotencyKey  string                 `json:"idempotency_key" binding:"required"`
		PaymentMethod   string                 `json:"payment_method"`
		ShippingAddress models.ShippingAddress `json:"shipping_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.repo.GetCart(ctx, userID)
	if err != nil {
		cc.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil || len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	claimed, err := cc.repo.ClaimIdempotency(ctx, req.IdempotencyKey, idempotencyTTL)
	if err != nil {
		cc.logger.Error("Idempotency check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process checkout"})
		return
	}
	if !claimed {
		c.JSON(http.StatusOK, gin.H{"message": "Checkout already submitted"})
		return
	}

	userEmail := c.GetString("email")
	event := &models.CheckoutEvent{
		Event:           "cart.checkout",
		IdempotencyKey:  req.IdempotencyKey,
		UserID:          userID,
		UserEmail:       userEmail,
		Items:           models.CheckoutItems(cart.Items),
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Timestamp:       time.Now().UTC(),
	}

	if err := cc.producer.SendCheckoutEvent(ctx, event); err != nil {
		cc.logger.Error("Failed to publish checkout event", zap.String("user_id", userID), zap.Error(err))
		if relErr := cc.repo.ReleaseIdempotency(ctx, req.IdempotencyKey); relErr != nil {
			cc.logger.Error("Failed to release idempotency key", zap.Error(relErr))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit checkout"})
		return
	}

	if err := cc.repo.DeleteCart(ctx, userID); err != nil {
		cc.logger.Warn("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}

	cc.logger.Info("Checkout submitted",
		zap.String("user_id", userID),
		zap.Int("items", len(event.Items)),
		zap.String("idempotency_key", req.IdempotencyKey))

	c.JSON(http.StatusAccepted, gin.H{"message": "Checkout submitted"})
}

// GetWishlist handles GET /wishlist.
func (cc *CartController) GetWishlist(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wishlist, err := cc.repo.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to load wishlist", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}
	if wishlist == nil {
		wishlist = &models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}
	}

	c.JSON(http.StatusOK, wishlist)
}

// AddWishlistItem handles POST /wishlist.
func (cc *CartController) AddWishlistItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var item models.WishlistItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	wishlist, err := cc.repo.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to load wishlist", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wishlist"})
		return
	}
	if wishlist == nil {
		wishlist = &models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}
	}

	wishlist.Add(item)

	if err := cc.repo.SaveWishlist(c.Request.Context(), wishlist); err != nil {
		cc.logger.Error("Failed to save wishlist", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save wishlist"})
		return
	}

	c.JSON(http.StatusOK, wishlist)
}

// RemoveWishlistItem handles DELETE /wishlist/:product_id.
func (cc *CartController) RemoveWishlistItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wishlist, err := cc.repo.GetWishlist(c.Request.Context(), userID)
	if err != nil || wishlist == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist not found"})
		return
	}

	if !wishlist.Remove(c.Param("product_id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not in wishlist"})
		return
	}

	if err := cc.repo.SaveWishlist(c.Request.Context(), wishlist); err != nil {
		cc.logger.Error("Failed to save wishlist", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save wishlist"})
		return
	}

	c.JSON(http.StatusOK, wishlist)
}
