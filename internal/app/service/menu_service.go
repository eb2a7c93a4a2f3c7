package service

import (
	"errors"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuDuplicateItem   = errors.New("menu item already exists for this restaurant")
	ErrMenuInvalidCategory = errors.New("invalid menu category")
	ErrMenuInvalidPrice    = errors.New("price must be greater than zero")
	ErrMenuInvalidPrepTime = errors.New("preparation time must be between 5 and 120 minutes")
	ErrMenuTooManyTags     = errors.New("too many tags")
)

// MenuItemInput carries the writable fields of a menu item.
type MenuItemInput struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Price           float64  `json:"price" binding:"required"`
	Image           string   `json:"image"`
	Restaurant      string   `json:"restaurant" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	Available       *bool    `json:"available"`
	PreparationTime int      `json:"preparation_time"`
	Tags            []string `json:"tags"`
}

type MenuService interface {
	GetMenuItems(filter repository.MenuFilter, page, limit int) ([]model.MenuItem, Pagination, error)
	GetMenuItem(id uint) (*model.MenuItem, error)
	CreateMenuItem(adminID uint, input MenuItemInput) (*model.MenuItem, error)
	UpdateMenuItem(adminID, id uint, input MenuItemInput) (*model.MenuItem, error)
	DeleteMenuItem(id uint) error
	GetCategories() ([]string, error)
	GetRestaurants() ([]string, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
}

func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) GetMenuItems(filter repository.MenuFilter, page, limit int) ([]model.MenuItem, Pagination, error) {
	logger.Debug("Fetching menu items", map[string]interface{}{
		"category":   filter.Category,
		"restaurant": filter.Restaurant,
		"search":     filter.Search,
		"page":       page,
		"limit":      limit,
	})

	page, limit = normalizePage(page, limit)

	items, total, err := s.menuRepo.FindAll(filter, page, limit)
	if err != nil {
		logger.Error("Failed to fetch menu items", err, map[string]interface{}{
			"page": page,
		})
		return nil, Pagination{}, err
	}

	logger.Info("Menu items fetched successfully", map[string]interface{}{
		"count": len(items),
		"total": total,
	})
	return items, buildPagination(page, limit, total), nil
}

func (s *menuService) GetMenuItem(id uint) (*model.MenuItem, error) {
	logger.Debug("Fetching menu item", map[string]interface{}{
		"menu_item_id": id,
	})

	item, err := s.menuRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Menu item not found", map[string]interface{}{
				"menu_item_id": id,
			})
			return nil, ErrMenuItemNotFound
		}
		logger.Error("Failed to fetch menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}
	return item, nil
}

func validateMenuItemInput(input MenuItemInput) error {
	if input.Price <= 0 {
		return ErrMenuInvalidPrice
	}
	if !model.MenuCategory(input.Category).IsValid() {
		return ErrMenuInvalidCategory
	}
	if input.PreparationTime != 0 && (input.PreparationTime < 5 || input.PreparationTime > 120) {
		return ErrMenuInvalidPrepTime
	}
	if len(input.Tags) > model.MaxMenuItemTags {
		return ErrMenuTooManyTags
	}
	return nil
}

func (s *menuService) CreateMenuItem(adminID uint, input MenuItemInput) (*model.MenuItem, error) {
	logger.Info("Creating menu item", map[string]interface{}{
		"admin_id":   adminID,
		"name":       input.Name,
		"restaurant": input.Restaurant,
	})

	if err := validateMenuItemInput(input); err != nil {
		logger.Warn("Menu item rejected: invalid fields", map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	if _, err := s.menuRepo.FindByNameAndRestaurant(input.Name, input.Restaurant); err == nil {
		logger.Warn("Menu item rejected: duplicate name for restaurant", map[string]interface{}{
			"name":       input.Name,
			"restaurant": input.Restaurant,
		})
		return nil, ErrMenuDuplicateItem
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check menu item uniqueness", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	item := &model.MenuItem{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		Image:           input.Image,
		Restaurant:      input.Restaurant,
		Category:        model.MenuCategory(input.Category),
		Available:       available,
		PreparationTime: input.PreparationTime,
		Tags:            input.Tags,
		CreatedBy:       adminID,
		UpdatedBy:       adminID,
	}

	if err := s.menuRepo.Create(item); err != nil {
		logger.Error("Failed to create menu item", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Menu item created successfully", map[string]interface{}{
		"menu_item_id": item.ID,
		"name":         item.Name,
	})
	return item, nil
}

func (s *menuService) UpdateMenuItem(adminID, id uint, input MenuItemInput) (*model.MenuItem, error) {
	logger.Info("Updating menu item", map[string]interface{}{
		"admin_id":     adminID,
		"menu_item_id": id,
	})

	if err := validateMenuItemInput(input); err != nil {
		return nil, err
	}

	item, err := s.menuRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	// A rename may still not collide with another dish
	if existing, err := s.menuRepo.FindByNameAndRestaurant(input.Name, input.Restaurant); err == nil {
		if existing.ID != item.ID {
			logger.Warn("Menu item update rejected: duplicate name for restaurant", map[string]interface{}{
				"menu_item_id": id,
				"name":         input.Name,
			})
			return nil, ErrMenuDuplicateItem
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Image = input.Image
	item.Restaurant = input.Restaurant
	item.Category = model.MenuCategory(input.Category)
	if input.Available != nil {
		item.Available = *input.Available
	}
	item.PreparationTime = input.PreparationTime
	item.Tags = input.Tags
	item.UpdatedBy = adminID

	if err := s.menuRepo.Update(item); err != nil {
		logger.Error("Failed to update menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}

	logger.Info("Menu item updated successfully", map[string]interface{}{
		"menu_item_id": id,
	})
	return item, nil
}

func (s *menuService) DeleteMenuItem(id uint) error {
	logger.Info("Deleting menu item", map[string]interface{}{
		"menu_item_id": id,
	})

	if _, err := s.menuRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	if err := s.menuRepo.Delete(id); err != nil {
		logger.Error("Failed to delete menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return err
	}

	logger.Info("Menu item deleted successfully", map[string]interface{}{
		"menu_item_id": id,
	})
	return nil
}

func (s *menuService) GetCategories() ([]string, error) {
	categories, err := s.menuRepo.DistinctCategories()
	if err != nil {
		logger.Error("Failed to fetch menu categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *menuService) GetRestaurants() ([]string, error) {
	restaurants, err := s.menuRepo.DistinctRestaurants()
	if err != nil {
		logger.Error("Failed to fetch restaurants", err, nil)
		return nil, err
	}
	return restaurants, nil
}
