package repository

import (
	"time"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	UserID uint       // owner constraint, 0 for all users
	Status string     // lifecycle state constraint
	From   *time.Time // placed at or after this instant
	To     *time.Time // placed strictly before this instant
}

// OrderStats aggregates counts and revenue for the admin dashboard.
// Revenue figures exclude cancelled orders.
type OrderStats struct {
	TodayOrders     int64                       `json:"today_orders"`
	WeekOrders      int64                       `json:"week_orders"`
	MonthOrders     int64                       `json:"month_orders"`
	TotalOrders     int64                       `json:"total_orders"`
	TodayRevenue    float64                     `json:"today_revenue"`
	WeekRevenue     float64                     `json:"week_revenue"`
	MonthRevenue    float64                     `json:"month_revenue"`
	TotalRevenue    float64                     `json:"total_revenue"`
	StatusBreakdown map[model.OrderStatus]int64 `json:"status_breakdown"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindAll(filter OrderFilter, page, limit int) ([]model.Order, int64, error)
	Update(order *model.Order) error
	AppendStatusHistory(entry *model.OrderStatusHistory) error
	Delete(id uint) error
	GetStats() (*OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"order_number": order.OrderNumber,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindAll(filter OrderFilter, page, limit int) ([]model.Order, int64, error) {
	logger.Debug("Finding orders in database", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
		"page":    page,
		"limit":   limit,
	})

	query := r.db.Model(&model.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err, map[string]interface{}{
			"user_id": filter.UserID,
		})
		return nil, 0, err
	}

	var orderIDs []uint
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Pluck("id", &orderIDs).Error; err != nil {
		logger.Error("Failed to find order IDs in database", err, map[string]interface{}{
			"user_id": filter.UserID,
		})
		return nil, 0, err
	}

	if len(orderIDs) == 0 {
		return []model.Order{}, total, nil
	}

	var orders []model.Order
	if err := r.preloadOrder().Where("id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders in database", err, map[string]interface{}{
			"user_id": filter.UserID,
		})
		return nil, 0, err
	}

	logger.Debug("Orders found in database", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) AppendStatusHistory(entry *model.OrderStatusHistory) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to append order status history in database", err, map[string]interface{}{
			"order_id": entry.OrderID,
			"status":   entry.Status,
		})
		return err
	}
	return nil
}

func (r *orderRepository) Delete(id uint) error {
	logger.Debug("Deleting order from database", map[string]interface{}{
		"order_id": id,
	})

	if err := r.db.Delete(&model.Order{}, id).Error; err != nil {
		logger.Error("Failed to delete order from database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	logger.Debug("Order deleted from database", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

func (r *orderRepository) GetStats() (*OrderStats, error) {
	logger.Debug("Getting order statistics in database", nil)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &OrderStats{
		StatusBreakdown: make(map[model.OrderStatus]int64),
	}

	if err := r.db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		logger.Error("Failed to count total orders", err, nil)
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.TodayOrders).Error; err != nil {
		logger.Error("Failed to count today's orders", err, nil)
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).
		Where("created_at >= ?", startOfWeek).
		Count(&stats.WeekOrders).Error; err != nil {
		logger.Error("Failed to count this week's orders", err, nil)
		return nil, err
	}

	if err := r.db.Model(&model.Order{}).
		Where("created_at >= ?", startOfMonth).
		Count(&stats.MonthOrders).Error; err != nil {
		logger.Error("Failed to count this month's orders", err, nil)
		return nil, err
	}

	// Revenue excludes cancelled orders, per rolling window
	revenueSince := func(since *time.Time) (float64, error) {
		query := r.db.Model(&model.Order{}).
			Where("status <> ?", model.OrderStatusCancelled)
		if since != nil {
			query = query.Where("created_at >= ?", *since)
		}
		var result struct {
			Revenue float64
		}
		err := query.Select("COALESCE(SUM(total_amount), 0) as revenue").
			Scan(&result).Error
		return result.Revenue, err
	}

	var err error
	if stats.TotalRevenue, err = revenueSince(nil); err != nil {
		logger.Error("Failed to calculate total revenue", err, nil)
		return nil, err
	}
	if stats.TodayRevenue, err = revenueSince(&startOfDay); err != nil {
		logger.Error("Failed to calculate today's revenue", err, nil)
		return nil, err
	}
	if stats.WeekRevenue, err = revenueSince(&startOfWeek); err != nil {
		logger.Error("Failed to calculate this week's revenue", err, nil)
		return nil, err
	}
	if stats.MonthRevenue, err = revenueSince(&startOfMonth); err != nil {
		logger.Error("Failed to calculate this month's revenue", err, nil)
		return nil, err
	}

	statusCounts := []struct {
		Status model.OrderStatus
		Count  int64
	}{}
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		logger.Error("Failed to count orders by status", err, nil)
		return nil, err
	}
	for _, sc := range statusCounts {
		stats.StatusBreakdown[sc.Status] = sc.Count
	}

	logger.Debug("Order statistics retrieved in database", map[string]interface{}{
		"total_orders":  stats.TotalOrders,
		"total_revenue": stats.TotalRevenue,
	})
	return stats, nil
}
