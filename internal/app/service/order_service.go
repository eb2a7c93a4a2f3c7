package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderEmptyItems     = errors.New("order must contain at least one item")
	ErrOrderTotalMismatch  = errors.New("order total does not match server calculation")
	ErrOrderInvalidStatus  = errors.New("invalid order status")
	ErrOrderInvalidPayment = errors.New("unknown payment method")
	ErrOrderTerminalStatus = errors.New("order already delivered or cancelled")
)

const (
	freeDeliveryThreshold = 200.0            // order value above which delivery is free
	standardDeliveryFee   = 30.0             // flat fee below the threshold
	totalTolerance        = 0.01             // accepted drift between client and server totals
	deliveryETA           = 45 * time.Minute // estimated delivery window
)

// OrderItemInput is one line of an order being placed.
type OrderItemInput struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderInput carries a checkout request. TotalAmount is the items
// total the client displayed; the server recomputes the sum of
// price times quantity and compares it. The delivery fee is not part
// of this figure, it is derived server side and reported back.
type PlaceOrderInput struct {
	Items         []OrderItemInput `json:"items" binding:"required"`
	AddressID     uint             `json:"address_id" binding:"required"`
	PaymentMethod string           `json:"payment_method"`
	TotalAmount   float64          `json:"total_amount" binding:"required"`
	Notes         string           `json:"notes"`
}

// StatusNotifier pushes order updates to connected clients. A nil
// notifier disables pushes.
type StatusNotifier interface {
	PublishOrderUpdate(order *model.Order)
}

type OrderService interface {
	PlaceOrder(userID uint, input PlaceOrderInput) (*model.Order, error)
	GetUserOrders(userID uint, status string, from, to *time.Time, page, limit int) ([]model.Order, Pagination, error)
	GetAllOrders(status string, from, to *time.Time, page, limit int) ([]model.Order, Pagination, error)
	GetOrder(userID uint, isAdmin bool, orderID uint) (*model.Order, error)
	UpdateStatus(adminID, orderID uint, status model.OrderStatus, note string, eta *time.Time) (*model.Order, error)
	DeleteOrder(orderID uint) error
	GetStats() (*repository.OrderStats, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	menuRepo    repository.MenuRepository
	addressRepo repository.AddressRepository
	notifier    StatusNotifier
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	addressRepo repository.AddressRepository,
	notifier StatusNotifier,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		menuRepo:    menuRepo,
		addressRepo: addressRepo,
		notifier:    notifier,
	}
}

// generateOrderNumber builds a human readable order number from the
// placement time plus a random 4 digit suffix.
func generateOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102-150405"), suffix)
}

// DeliveryFeeFor returns the delivery fee for an items subtotal.
func DeliveryFeeFor(subtotal float64) float64 {
	if subtotal >= freeDeliveryThreshold {
		return 0
	}
	return standardDeliveryFee
}

func (s *orderService) PlaceOrder(userID uint, input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(input.Items),
		"address_id": input.AddressID,
	})

	if len(input.Items) == 0 {
		return nil, ErrOrderEmptyItems
	}

	address, err := s.addressRepo.FindByID(input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot place order: address not found", map[string]interface{}{
				"user_id":    userID,
				"address_id": input.AddressID,
			})
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Cannot place order: address ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": input.AddressID,
		})
		return nil, ErrAddressNotFound
	}

	ids := make([]uint, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, ErrCartInvalidQuantity
		}
		ids = append(ids, line.MenuItemID)
	}

	menuItems, err := s.menuRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.MenuItem, len(menuItems))
	for i := range menuItems {
		byID[menuItems[i].ID] = &menuItems[i]
	}

	var orderItems []model.OrderItem
	var subtotal float64
	for _, line := range input.Items {
		menuItem, ok := byID[line.MenuItemID]
		if !ok {
			logger.Warn("Cannot place order: menu item not found", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": line.MenuItemID,
			})
			return nil, ErrMenuItemNotFound
		}
		if !menuItem.Available {
			logger.Warn("Cannot place order: menu item unavailable", map[string]interface{}{
				"user_id":      userID,
				"menu_item_id": line.MenuItemID,
			})
			return nil, ErrMenuItemUnavailable
		}

		lineTotal := menuItem.Price * float64(line.Quantity)
		subtotal += lineTotal
		orderItems = append(orderItems, model.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
			Subtotal:   lineTotal,
			Image:      menuItem.Image,
			Restaurant: menuItem.Restaurant,
		})
	}

	// The client vouches for the items total only. The delivery fee is
	// derived here and never part of the comparison.
	if math.Abs(subtotal-input.TotalAmount) > totalTolerance {
		logger.Warn("Cannot place order: total mismatch", map[string]interface{}{
			"user_id":      userID,
			"client_total": input.TotalAmount,
			"server_total": subtotal,
		})
		return nil, ErrOrderTotalMismatch
	}
	deliveryFee := DeliveryFeeFor(subtotal)

	paymentMethod := model.PaymentMethod(input.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.PaymentCash
	}
	if !paymentMethod.IsValid() {
		logger.Warn("Cannot place order: unknown payment method", map[string]interface{}{
			"user_id":        userID,
			"payment_method": input.PaymentMethod,
		})
		return nil, ErrOrderInvalidPayment
	}

	now := time.Now()
	eta := now.Add(deliveryETA)
	order := &model.Order{
		OrderNumber: generateOrderNumber(now),
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: subtotal,
		DeliveryFee: deliveryFee,
		DeliveryAddress: model.DeliveryAddress{
			FullName:             address.FullName,
			Mobile:               address.Mobile,
			Street:               address.Street,
			City:                 address.City,
			State:                address.State,
			Pincode:              address.Pincode,
			DeliveryInstructions: address.DeliveryInstructions,
		},
		PaymentMethod:         paymentMethod,
		PaymentStatus:         model.PaymentStatusPending,
		Status:                model.OrderStatusPending,
		EstimatedDeliveryTime: &eta,
		Notes:                 input.Notes,
	}

	if err := s.orderRepo.Create(order); err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.orderRepo.AppendStatusHistory(&model.OrderStatusHistory{
		OrderID: order.ID,
		Status:  model.OrderStatusPending,
		Note:    "Order placed",
	}); err != nil {
		return nil, err
	}

	// The cart is not touched here. Checkout is orchestrated by the
	// client, which clears the cart itself once the order is confirmed.
	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total_amount": order.TotalAmount,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint, status string, from, to *time.Time, page, limit int) ([]model.Order, Pagination, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
		"status":  status,
	})

	page, limit = normalizePage(page, limit)
	filter := repository.OrderFilter{UserID: userID, Status: status, From: from, To: to}
	orders, total, err := s.orderRepo.FindAll(filter, page, limit)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, Pagination{}, err
	}
	return orders, buildPagination(page, limit, total), nil
}

func (s *orderService) GetAllOrders(status string, from, to *time.Time, page, limit int) ([]model.Order, Pagination, error) {
	logger.Debug("Fetching all orders", map[string]interface{}{
		"status": status,
	})

	page, limit = normalizePage(page, limit)
	filter := repository.OrderFilter{Status: status, From: from, To: to}
	orders, total, err := s.orderRepo.FindAll(filter, page, limit)
	if err != nil {
		logger.Error("Failed to fetch all orders", err, nil)
		return nil, Pagination{}, err
	}
	return orders, buildPagination(page, limit, total), nil
}

func (s *orderService) GetOrder(userID uint, isAdmin bool, orderID uint) (*model.Order, error) {
	logger.Debug("Fetching order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus applies an admin lifecycle transition. Delivered and
// Cancelled are terminal; nothing leaves them. Marking an order
// Delivered also stamps the delivery time and settles the payment. A
// non-nil eta overrides the estimated delivery time.
func (s *orderService) UpdateStatus(adminID, orderID uint, status model.OrderStatus, note string, eta *time.Time) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"admin_id": adminID,
		"order_id": orderID,
		"status":   status,
	})

	if !status.IsValid() {
		return nil, ErrOrderInvalidStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status.IsTerminal() {
		logger.Warn("Order status update rejected: terminal state", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderTerminalStatus
	}

	order.Status = status
	if eta != nil {
		order.EstimatedDeliveryTime = eta
	}
	if status == model.OrderStatusDelivered {
		now := time.Now()
		order.ActualDeliveryTime = &now
		order.PaymentStatus = model.PaymentStatusPaid
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.AppendStatusHistory(&model.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    status,
		Note:      note,
		ChangedBy: adminID,
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PublishOrderUpdate(order)
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}

func (s *orderService) DeleteOrder(orderID uint) error {
	logger.Info("Deleting order", map[string]interface{}{
		"order_id": orderID,
	})

	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.orderRepo.Delete(orderID); err != nil {
		logger.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	logger.Info("Order deleted successfully", map[string]interface{}{
		"order_id": orderID,
	})
	return nil
}

func (s *orderService) GetStats() (*repository.OrderStats, error) {
	logger.Debug("Fetching order statistics", nil)

	stats, err := s.orderRepo.GetStats()
	if err != nil {
		logger.Error("Failed to fetch order statistics", err, nil)
		return nil, err
	}
	return stats, nil
}
