package repository

import (
	"strings"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

// MenuFilter narrows menu listings. Zero values mean "no constraint".
type MenuFilter struct {
	Category   string   // exact category match
	Restaurant string   // case-insensitive substring match
	Available  *bool    // availability flag
	MinPrice   *float64 // inclusive lower price bound
	MaxPrice   *float64 // inclusive upper price bound
	Search     string   // substring over name, description and restaurant
}

type MenuRepository interface {
	Create(item *model.MenuItem) error
	BulkCreate(items []model.MenuItem, batchSize int) error
	FindByID(id uint) (*model.MenuItem, error)
	FindByNameAndRestaurant(name, restaurant string) (*model.MenuItem, error)
	FindAll(filter MenuFilter, page, limit int) ([]model.MenuItem, int64, error)
	FindByIDs(ids []uint) ([]model.MenuItem, error)
	DistinctCategories() ([]string, error)
	DistinctRestaurants() ([]string, error)
	Update(item *model.MenuItem) error
	Delete(id uint) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(item *model.MenuItem) error {
	logger.Debug("Creating menu item in database", map[string]interface{}{
		"name":       item.Name,
		"restaurant": item.Restaurant,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"name":       item.Name,
			"restaurant": item.Restaurant,
		})
		return err
	}

	logger.Debug("Menu item created in database", map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
	})
	return nil
}

func (r *menuRepository) BulkCreate(items []model.MenuItem, batchSize int) error {
	logger.Debug("Bulk creating menu items in database", map[string]interface{}{
		"count":      len(items),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create menu items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}

	logger.Debug("Menu items bulk created in database", map[string]interface{}{
		"count": len(items),
	})
	return nil
}

func (r *menuRepository) FindByID(id uint) (*model.MenuItem, error) {
	logger.Debug("Finding menu item by ID in database", map[string]interface{}{
		"menu_item_id": id,
	})

	var item model.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find menu item by ID in database", err, map[string]interface{}{
				"menu_item_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Menu item found by ID in database", map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
	})
	return &item, nil
}

func (r *menuRepository) FindByNameAndRestaurant(name, restaurant string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.Where("LOWER(name) = ? AND LOWER(restaurant) = ?",
		strings.ToLower(name), strings.ToLower(restaurant)).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) applyFilter(query *gorm.DB, filter MenuFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Restaurant != "" {
		query = query.Where("LOWER(restaurant) LIKE ?", "%"+strings.ToLower(filter.Restaurant)+"%")
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(restaurant) LIKE ?",
			like, like, like,
		)
	}
	return query
}

func (r *menuRepository) FindAll(filter MenuFilter, page, limit int) ([]model.MenuItem, int64, error) {
	logger.Debug("Finding menu items in database", map[string]interface{}{
		"category":   filter.Category,
		"restaurant": filter.Restaurant,
		"search":     filter.Search,
		"page":       page,
		"limit":      limit,
	})

	query := r.applyFilter(r.db.Model(&model.MenuItem{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count menu items in database", err, map[string]interface{}{
			"category": filter.Category,
		})
		return nil, 0, err
	}

	var items []model.MenuItem
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items in database", err, map[string]interface{}{
			"category": filter.Category,
			"page":     page,
		})
		return nil, 0, err
	}

	logger.Debug("Menu items found in database", map[string]interface{}{
		"count": len(items),
		"total": total,
	})
	return items, total, nil
}

func (r *menuRepository) FindByIDs(ids []uint) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) DistinctCategories() ([]string, error) {
	var categories []string
	if err := r.db.Model(&model.MenuItem{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		logger.Error("Failed to find distinct categories in database", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *menuRepository) DistinctRestaurants() ([]string, error) {
	var restaurants []string
	if err := r.db.Model(&model.MenuItem{}).
		Distinct("restaurant").
		Order("restaurant ASC").
		Pluck("restaurant", &restaurants).Error; err != nil {
		logger.Error("Failed to find distinct restaurants in database", err, nil)
		return nil, err
	}
	return restaurants, nil
}

func (r *menuRepository) Update(item *model.MenuItem) error {
	logger.Debug("Updating menu item in database", map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update menu item in database", err, map[string]interface{}{
			"menu_item_id": item.ID,
		})
		return err
	}

	logger.Debug("Menu item updated in database", map[string]interface{}{
		"menu_item_id": item.ID,
	})
	return nil
}

func (r *menuRepository) Delete(id uint) error {
	logger.Debug("Deleting menu item from database", map[string]interface{}{
		"menu_item_id": id,
	})

	if err := r.db.Delete(&model.MenuItem{}, id).Error; err != nil {
		logger.Error("Failed to delete menu item from database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return err
	}

	logger.Debug("Menu item deleted from database", map[string]interface{}{
		"menu_item_id": id,
	})
	return nil
}
