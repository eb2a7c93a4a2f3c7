package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`                    // address ID
	UserID               uint           `gorm:"not null;index" json:"user_id"`           // owning user ID
	FullName             string         `gorm:"size:100;not null" json:"full_name"`      // recipient name
	Mobile               string         `gorm:"size:20;not null" json:"mobile"`          // recipient mobile (+91...)
	Street               string         `gorm:"size:200;not null" json:"street"`         // street address
	City                 string         `gorm:"size:50;not null" json:"city"`            // city
	State                string         `gorm:"size:50;not null" json:"state"`           // state
	Pincode              string         `gorm:"size:10;not null" json:"pincode"`         // 6-digit postal code
	DeliveryInstructions string         `gorm:"size:300" json:"delivery_instructions"`   // optional courier notes
	IsDefault            bool           `gorm:"default:false" json:"is_default"`         // default shipping address flag
	CreatedAt            time.Time      `json:"created_at"`                              // creation time
	UpdatedAt            time.Time      `json:"updated_at"`                              // last update time
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                          // soft delete marker
}

func (Address) TableName() string {
	return "addresses"
}
