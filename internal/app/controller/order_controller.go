package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status                string     `json:"status" binding:"required"`
	Note                  string     `json:"note"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime"`
}

// parseOrderDateRange reads the optional startDate/endDate query
// parameters (YYYY-MM-DD). The end date is inclusive, so it is pushed
// to the start of the following day before becoming the upper bound.
func parseOrderDateRange(c *gin.Context) (*time.Time, *time.Time) {
	var from, to *time.Time
	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.AddDate(0, 0, 1)
			to = &end
		}
	}
	return from, to
}

// PlaceOrder checks out the cart into an order
// POST /api/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid place order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Items, address and total are required")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderEmptyItems):
			apperrors.BadRequest(c, apperrors.OrderEmptyItems, "An order must contain at least one item")
		case errors.Is(err, service.ErrAddressNotFound):
			apperrors.NotFound(c, apperrors.AddressNotFound, "Delivery address not found")
		case errors.Is(err, service.ErrMenuItemNotFound):
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "One of the ordered dishes no longer exists")
		case errors.Is(err, service.ErrMenuItemUnavailable):
			apperrors.BadRequest(c, apperrors.MenuItemUnavailable, "One of the ordered dishes is unavailable")
		case errors.Is(err, service.ErrCartInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Quantities must be at least 1")
		case errors.Is(err, service.ErrOrderTotalMismatch):
			apperrors.BadRequest(c, apperrors.OrderTotalMismatch, "The order total does not match the current prices. Please refresh and retry")
		case errors.Is(err, service.ErrOrderInvalidPayment):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown payment method")
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	totalQuantity := 0
	for _, line := range order.Items {
		totalQuantity += line.Quantity
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"summary": gin.H{
			"order_number":            order.OrderNumber,
			"item_count":              len(order.Items),
			"total_quantity":          totalQuantity,
			"delivery_fee":            order.DeliveryFee,
			"grand_total":             order.GrandTotal(),
			"status":                  order.Status,
			"estimated_delivery_time": order.EstimatedDeliveryTime,
		},
	})
}

// GetUserOrders lists one user's orders, self or admin only
// GET /api/orders/:userId
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	if role != model.RoleAdmin && targetID != requesterID {
		log.Warn("Order listing denied: foreign user", map[string]interface{}{
			"requester_id": requesterID,
			"target_id":    targetID,
		})
		apperrors.Forbidden(c, "You can only view your own orders")
		return
	}

	from, to := parseOrderDateRange(c)
	page, limit := parsePageParams(c)
	orders, pagination, err := ctrl.orderService.GetUserOrders(targetID, c.Query("status"), from, to, page, limit)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": targetID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

// GetOrder returns a single order, owner or admin only
// GET /api/orders/:userId/:orderId
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	requesterID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	isAdmin := role == model.RoleAdmin
	if !isAdmin && targetID != requesterID {
		apperrors.Forbidden(c, "You can only view your own orders")
		return
	}

	order, err := ctrl.orderService.GetOrder(targetID, isAdmin, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  targetID,
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetAllOrders lists every order (admin)
// GET /api/orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	from, to := parseOrderDateRange(c)
	page, limit := parsePageParams(c)
	orders, pagination, err := ctrl.orderService.GetAllOrders(c.Query("status"), from, to, page, limit)
	if err != nil {
		log.Error("Failed to fetch all orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"pagination": pagination,
	})
}

// UpdateOrderStatus applies a lifecycle transition (admin)
// PUT /api/orders/:id
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(adminID, orderID, model.OrderStatus(req.Status), req.Note, req.EstimatedDeliveryTime)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderInvalidStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		case errors.Is(err, service.ErrOrderTerminalStatus):
			apperrors.Conflict(c, apperrors.OrderTerminalStatus, "This order is already delivered or cancelled")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
				"status":   req.Status,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
		"admin_id": adminID,
	})
	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// DeleteOrder removes an order record (admin)
// DELETE /api/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Order deleted", map[string]interface{}{
		"order_id": orderID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

// GetOrderStats returns dashboard aggregates (admin)
// GET /api/orders/stats/summary
func (ctrl *OrderController) GetOrderStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.orderService.GetStats()
	if err != nil {
		log.Error("Failed to fetch order stats", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
