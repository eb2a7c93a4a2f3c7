package model

import (
	"time"
)

type MenuCategory string // dish category

const (
	CategoryAppetizer  MenuCategory = "appetizer"
	CategoryMainCourse MenuCategory = "main course"
	CategoryDessert    MenuCategory = "dessert"
	CategoryBeverage   MenuCategory = "beverage"
	CategorySnack      MenuCategory = "snack"
	CategoryCombo      MenuCategory = "combo"
)

// MaxMenuItemTags caps the number of tags per dish
const MaxMenuItemTags = 5

// ValidMenuCategories lists every accepted dish category.
var ValidMenuCategories = []MenuCategory{
	CategoryAppetizer,
	CategoryMainCourse,
	CategoryDessert,
	CategoryBeverage,
	CategorySnack,
	CategoryCombo,
}

// IsValid reports whether c is one of the accepted categories.
func (c MenuCategory) IsValid() bool {
	for _, v := range ValidMenuCategories {
		if c == v {
			return true
		}
	}
	return false
}

// MenuItem is one dish on the catalog. Deleting a dish removes the row
// outright; carts and orders keep their own snapshots, and the
// (name, restaurant) unique index must not be held by removed rows or
// the dish could never be created again.
type MenuItem struct {
	ID              uint         `gorm:"primarykey" json:"id"`                                        // menu item ID
	Name            string       `gorm:"size:100;not null;uniqueIndex:idx_menu_name_restaurant" json:"name"`       // dish name
	Description     string       `gorm:"type:text" json:"description"`                                // dish description
	Price           float64      `gorm:"not null" json:"price"`                                       // unit price, must be positive
	Image           string       `gorm:"type:text" json:"image"`                                      // image URL
	Restaurant      string       `gorm:"size:100;not null;uniqueIndex:idx_menu_name_restaurant" json:"restaurant"` // restaurant name
	Category        MenuCategory `gorm:"type:varchar(20);not null" json:"category"`                   // dish category
	Available       bool         `gorm:"default:true" json:"available"`                               // availability flag
	PreparationTime int          `json:"preparation_time,omitempty"`                                  // prep time in minutes (5-120)
	Tags            []string     `gorm:"serializer:json" json:"tags,omitempty"`                       // up to 5 tags
	CreatedBy       uint         `json:"created_by,omitempty"`                                        // admin who created the item
	UpdatedBy       uint         `json:"updated_by,omitempty"`                                        // admin who last updated the item
	CreatedAt       time.Time    `json:"created_at"`                                                  // creation time
	UpdatedAt       time.Time    `json:"updated_at"`                                                  // last update time
}

func (MenuItem) TableName() string {
	return "menu_items"
}
