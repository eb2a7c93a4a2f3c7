package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string // order lifecycle state

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// ValidOrderStatuses lists every accepted lifecycle state.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid reports whether s is one of the accepted lifecycle states.
func (s OrderStatus) IsValid() bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentMethod string // payment method

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
)

// ValidPaymentMethods lists every accepted payment method.
var ValidPaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCard,
	PaymentUPI,
	PaymentWallet,
}

// IsValid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) IsValid() bool {
	for _, v := range ValidPaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

type PaymentStatus string // payment state

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusFailed   PaymentStatus = "Failed"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

// DeliveryAddress is the shipping address frozen into the order at
// placement time. Later edits to the user's address book do not touch it.
type DeliveryAddress struct {
	FullName             string `gorm:"size:100" json:"full_name"`              // recipient name
	Mobile               string `gorm:"size:20" json:"mobile"`                  // recipient mobile
	Street               string `gorm:"size:200" json:"street"`                 // street address
	City                 string `gorm:"size:50" json:"city"`                    // city
	State                string `gorm:"size:50" json:"state"`                   // state
	Pincode              string `gorm:"size:10" json:"pincode"`                 // postal code
	DeliveryInstructions string `gorm:"size:300" json:"delivery_instructions"`  // courier notes
}

type Order struct {
	ID                    uint            `gorm:"primarykey" json:"id"`                                              // order ID
	OrderNumber           string          `gorm:"size:30;uniqueIndex;not null" json:"order_number"`                  // human readable order number
	UserID                uint            `gorm:"not null;index" json:"user_id"`                                     // ordering user ID
	Items                 []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`       // order lines
	TotalAmount           float64         `gorm:"not null" json:"total_amount"`                                      // items subtotal, excludes delivery fee
	DeliveryFee           float64         `json:"delivery_fee"`                                                      // 0 above the free delivery threshold
	DeliveryAddress       DeliveryAddress `gorm:"embedded;embeddedPrefix:address_" json:"delivery_address"`          // address snapshot
	PaymentMethod         PaymentMethod   `gorm:"type:varchar(20);default:'cash'" json:"payment_method"`             // payment method
	PaymentStatus         PaymentStatus   `gorm:"type:varchar(20);default:'Pending'" json:"payment_status"`          // payment state
	Status                OrderStatus     `gorm:"type:varchar(30);default:'Pending';index" json:"status"`            // lifecycle state
	StatusHistory         []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"` // append-only transition log
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time,omitempty"`                                 // placement time + 45 min
	ActualDeliveryTime    *time.Time      `json:"actual_delivery_time,omitempty"`                                    // set when delivered
	Notes                 string          `gorm:"size:500" json:"notes,omitempty"`                                   // customer notes
	CreatedAt             time.Time       `json:"created_at"`                                                        // placement time
	UpdatedAt             time.Time       `json:"updated_at"`                                                        // last update time
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`                                                    // soft delete marker
}

func (Order) TableName() string {
	return "orders"
}

// GrandTotal is what the customer actually pays: the items subtotal
// plus the delivery fee.
func (o *Order) GrandTotal() float64 {
	return o.TotalAmount + o.DeliveryFee
}

type OrderItem struct {
	ID         uint    `gorm:"primarykey" json:"id"`              // order item ID
	OrderID    uint    `gorm:"not null;index" json:"order_id"`    // owning order ID
	MenuItemID uint    `json:"menu_item_id"`                      // referenced menu item ID
	Name       string  `gorm:"size:100;not null" json:"name"`     // dish name snapshot
	Price      float64 `gorm:"not null" json:"price"`             // unit price snapshot
	Quantity   int     `gorm:"not null" json:"quantity"`          // units
	Subtotal   float64 `gorm:"not null" json:"subtotal"`          // price * quantity
	Image      string  `gorm:"type:text" json:"image,omitempty"`  // image URL snapshot
	Restaurant string  `gorm:"size:100" json:"restaurant"`        // restaurant snapshot
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory records one lifecycle transition. Rows are only
// ever appended, never updated or removed.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primarykey" json:"id"`               // history entry ID
	OrderID   uint        `gorm:"not null;index" json:"order_id"`     // owning order ID
	Status    OrderStatus `gorm:"type:varchar(30)" json:"status"`     // state entered
	Note      string      `gorm:"size:300" json:"note,omitempty"`     // optional annotation
	ChangedBy uint        `json:"changed_by,omitempty"`               // admin who applied the change, 0 for system
	CreatedAt time.Time   `json:"created_at"`                         // transition time
}

func (OrderStatusHistory) TableName() string {
	return "order_status_histories"
}
