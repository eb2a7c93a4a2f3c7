package model

import (
	"time"
)

const (
	MaxCartItems    = 20 // distinct dishes per cart
	MaxItemQuantity = 50 // units per dish
)

// CartItem is one line of a user's cart. Name, price, image and
// restaurant are snapshotted at add time so the cart survives later
// menu edits unchanged. Lines are deleted for real, not soft-deleted;
// the (user, menu item) unique index must free the slot as soon as a
// line is removed so the dish can be added again.
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                            // cart item ID
	UserID     uint      `gorm:"not null;uniqueIndex:idx_cart_user_menu" json:"user_id"`          // owning user ID
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_cart_user_menu" json:"menu_item_id"`     // referenced menu item ID
	Name       string    `gorm:"size:100;not null" json:"name"`                                   // dish name snapshot
	Price      float64   `gorm:"not null" json:"price"`                                           // unit price snapshot
	Image      string    `gorm:"type:text" json:"image"`                                          // image URL snapshot
	Restaurant string    `gorm:"size:100" json:"restaurant"`                                      // restaurant snapshot
	Quantity   int       `gorm:"not null" json:"quantity"`                                        // units, 1-50
	AddedAt    time.Time `json:"added_at"`                                                        // first add time
	CreatedAt  time.Time `json:"created_at"`                                                      // creation time
	UpdatedAt  time.Time `json:"updated_at"`                                                      // last update time
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns the line total for this cart item.
func (c *CartItem) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}
