package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type SyncCartRequest struct {
	Items []service.SyncCartItem `json:"items" binding:"required"`
}

// respondCartError maps cart service failures to responses.
func respondCartError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrMenuItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
	case errors.Is(err, service.ErrMenuItemUnavailable):
		apperrors.BadRequest(c, apperrors.MenuItemUnavailable, "This dish is currently unavailable")
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "Item is not in your cart")
	case errors.Is(err, service.ErrCartFull):
		apperrors.BadRequest(c, apperrors.CartFull, "Your cart can hold at most 20 different dishes")
	case errors.Is(err, service.ErrCartQuantityLimit):
		apperrors.BadRequest(c, apperrors.CartQuantityLimit, "You can order at most 50 of a single dish")
	case errors.Is(err, service.ErrCartInvalidQuantity):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantity must be at least 1")
	default:
		return false
	}
	return true
}

// GetCart returns the user's cart with totals
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// GetSummary returns the cart header for badges and checkout
// GET /api/cart/summary
func (ctrl *CartController) GetSummary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	summary, err := ctrl.cartService.GetSummary(userID)
	if err != nil {
		log.Error("Failed to fetch cart summary", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

// AddToCart adds a dish to the cart
// POST /api/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Menu item and quantity are required")
		return
	}

	cart, err := ctrl.cartService.AddToCart(userID, req.MenuItemID, req.Quantity)
	if err != nil {
		if respondCartError(c, err) {
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": req.MenuItemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": req.MenuItemID,
		"quantity":     req.Quantity,
	})
	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// UpdateCartItem sets the quantity of a cart line
// PUT /api/cart/update/:menuItemId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	menuItemID, ok := parseIDParam(c, "menuItemId")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Quantity is required")
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(userID, menuItemID, req.Quantity)
	if err != nil {
		if respondCartError(c, err) {
			return
		}
		log.Error("Failed to update cart item", err, map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": menuItemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Cart item updated", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"quantity":     req.Quantity,
	})
	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// RemoveFromCart drops a cart line
// DELETE /api/cart/remove/:menuItemId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	menuItemID, ok := parseIDParam(c, "menuItemId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveFromCart(userID, menuItemID)
	if err != nil {
		if respondCartError(c, err) {
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": menuItemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": menuItemID,
	})
	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ClearCart empties the cart
// DELETE /api/cart/clear
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// SyncCart merges a client-side cart into the stored one
// POST /api/cart/sync
func (ctrl *CartController) SyncCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SyncCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid sync cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Items are required")
		return
	}

	result, err := ctrl.cartService.SyncCart(userID, req.Items)
	if err != nil {
		log.Error("Failed to sync cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Cart synced", map[string]interface{}{
		"user_id": userID,
		"dropped": result.Dropped,
	})
	c.JSON(http.StatusOK, gin.H{
		"cart":    result.Cart,
		"dropped": result.Dropped,
	})
}
