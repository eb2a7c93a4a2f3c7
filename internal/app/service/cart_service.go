package service

import (
	"errors"
	"time"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCartFull            = errors.New("cart item limit reached")
	ErrCartQuantityLimit   = errors.New("quantity limit per item reached")
	ErrCartInvalidQuantity = errors.New("quantity must be at least 1")
	ErrMenuItemUnavailable = errors.New("menu item currently unavailable")
)

// Cart is a user's cart with its recomputed totals. TotalAmount is always
// derived from the stored lines, never taken from the client.
type Cart struct {
	Items       []model.CartItem `json:"items"`
	TotalItems  int              `json:"total_items"`
	TotalAmount float64          `json:"total_amount"`
}

// CartSummary is the lightweight cart header for badges and checkout.
type CartSummary struct {
	ItemCount   int     `json:"item_count"`
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
}

// SyncCartItem is one line of a client-side cart submitted for merging.
type SyncCartItem struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

// SyncResult reports the merge outcome. Dropped counts the submitted
// lines that could not be kept because the cart was full.
type SyncResult struct {
	Cart    *Cart `json:"cart"`
	Dropped int   `json:"dropped"`
}

type CartService interface {
	GetCart(userID uint) (*Cart, error)
	GetSummary(userID uint) (*CartSummary, error)
	AddToCart(userID, menuItemID uint, quantity int) (*Cart, error)
	UpdateQuantity(userID, menuItemID uint, quantity int) (*Cart, error)
	RemoveFromCart(userID, menuItemID uint) (*Cart, error)
	ClearCart(userID uint) error
	SyncCart(userID uint, items []SyncCartItem) (*SyncResult, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	menuRepo repository.MenuRepository
}

func NewCartService(cartRepo repository.CartRepository, menuRepo repository.MenuRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

func buildCart(items []model.CartItem) *Cart {
	cart := &Cart{Items: items}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalAmount += item.Subtotal()
	}
	return cart
}

func (s *cartService) GetCart(userID uint) (*Cart, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return buildCart(items), nil
}

func (s *cartService) GetSummary(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart for summary", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart := buildCart(items)
	return &CartSummary{
		ItemCount:   len(cart.Items),
		TotalItems:  cart.TotalItems,
		TotalAmount: cart.TotalAmount,
	}, nil
}

func (s *cartService) AddToCart(userID, menuItemID uint, quantity int) (*Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrCartInvalidQuantity
	}

	menuItem, err := s.menuRepo.FindByID(menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: menu item not found", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": menuItemID,
			})
			return nil, ErrMenuItemNotFound
		}
		logger.Error("Failed to fetch menu item", err, map[string]interface{}{
			"menu_item_id": menuItemID,
		})
		return nil, err
	}

	if !menuItem.Available {
		logger.Warn("Cannot add to cart: menu item unavailable", map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": menuItemID,
		})
		return nil, ErrMenuItemUnavailable
	}

	existing, err := s.cartRepo.FindByUserAndMenuItem(userID, menuItemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": menuItemID,
		})
		return nil, err
	}

	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > model.MaxItemQuantity {
			logger.Warn("Cannot add to cart: quantity limit reached", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": menuItemID,
				"requested":    newQuantity,
			})
			return nil, ErrCartQuantityLimit
		}
		existing.Quantity = newQuantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return s.GetCart(userID)
	}

	count, err := s.cartRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxCartItems {
		logger.Warn("Cannot add to cart: cart full", map[string]interface{}{
			"user_id": userID,
			"count":   count,
		})
		return nil, ErrCartFull
	}
	if quantity > model.MaxItemQuantity {
		return nil, ErrCartQuantityLimit
	}

	cartItem := &model.CartItem{
		UserID:     userID,
		MenuItemID: menuItemID,
		Name:       menuItem.Name,
		Price:      menuItem.Price,
		Image:      menuItem.Image,
		Restaurant: menuItem.Restaurant,
		Quantity:   quantity,
		AddedAt:    time.Now(),
	}

	if err := s.cartRepo.Create(cartItem); err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"user_id":      userID,
			"menu_item_id": menuItemID,
		})
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      userID,
	})
	return s.GetCart(userID)
}

func (s *cartService) UpdateQuantity(userID, menuItemID uint, quantity int) (*Cart, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return nil, ErrCartInvalidQuantity
	}
	if quantity > model.MaxItemQuantity {
		return nil, ErrCartQuantityLimit
	}

	cartItem, err := s.cartRepo.FindByUserAndMenuItem(userID, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for quantity update", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": menuItemID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		return nil, err
	}

	logger.Info("Cart item quantity updated successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return s.GetCart(userID)
}

func (s *cartService) RemoveFromCart(userID, menuItemID uint) (*Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"menu_item_id": menuItemID,
	})

	cartItem, err := s.cartRepo.FindByUserAndMenuItem(userID, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": menuItemID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if err := s.cartRepo.Delete(cartItem.ID); err != nil {
		return nil, err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return s.GetCart(userID)
}

// ClearCart empties the cart. Clearing an already empty cart succeeds.
func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// SyncCart merges a client-side cart into the stored one. Quantities of
// lines present on both sides take the larger of the two, capped at the
// per-item limit. New lines are appended while the cart has room; the
// rest are dropped and reported.
func (s *cartService) SyncCart(userID uint, items []SyncCartItem) (*SyncResult, error) {
	logger.Info("Syncing cart", map[string]interface{}{
		"user_id":  userID,
		"incoming": len(items),
	})

	stored, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart for sync", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	byMenuItem := make(map[uint]*model.CartItem, len(stored))
	for i := range stored {
		byMenuItem[stored[i].MenuItemID] = &stored[i]
	}

	distinct := len(stored)
	dropped := 0
	seen := make(map[uint]bool, len(items))

	for _, incoming := range items {
		if incoming.Quantity < 1 || seen[incoming.MenuItemID] {
			dropped++
			continue
		}
		seen[incoming.MenuItemID] = true

		quantity := incoming.Quantity
		if quantity > model.MaxItemQuantity {
			quantity = model.MaxItemQuantity
		}

		if existing, ok := byMenuItem[incoming.MenuItemID]; ok {
			if quantity > existing.Quantity {
				existing.Quantity = quantity
				if err := s.cartRepo.Update(existing); err != nil {
					return nil, err
				}
			}
			continue
		}

		if distinct >= model.MaxCartItems {
			dropped++
			continue
		}

		menuItem, err := s.menuRepo.FindByID(incoming.MenuItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Stale client reference, skip it
				dropped++
				continue
			}
			return nil, err
		}
		if !menuItem.Available {
			dropped++
			continue
		}

		cartItem := &model.CartItem{
			UserID:     userID,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Image:      menuItem.Image,
			Restaurant: menuItem.Restaurant,
			Quantity:   quantity,
			AddedAt:    time.Now(),
		}
		if err := s.cartRepo.Create(cartItem); err != nil {
			return nil, err
		}
		distinct++
	}

	cart, err := s.GetCart(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Cart synced successfully", map[string]interface{}{
		"user_id": userID,
		"items":   len(cart.Items),
		"dropped": dropped,
	})
	return &SyncResult{Cart: cart, Dropped: dropped}, nil
}
