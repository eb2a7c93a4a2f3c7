package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
)

type MenuController struct {
	menuService service.MenuService
}

func NewMenuController(menuService service.MenuService) *MenuController {
	return &MenuController{
		menuService: menuService,
	}
}

// parseMenuFilter builds a listing filter from the query string.
func parseMenuFilter(c *gin.Context) repository.MenuFilter {
	filter := repository.MenuFilter{
		Category:   c.Query("category"),
		Restaurant: c.Query("restaurant"),
		Search:     c.Query("search"),
	}
	if v := c.Query("available"); v != "" {
		if available, err := strconv.ParseBool(v); err == nil {
			filter.Available = &available
		}
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	return filter
}

func parsePageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// GetMenuItems lists menu items with filters and pagination
// GET /api/menu
func (ctrl *MenuController) GetMenuItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := parseMenuFilter(c)
	page, limit := parsePageParams(c)

	items, pagination, err := ctrl.menuService.GetMenuItems(filter, page, limit)
	if err != nil {
		log.Error("Failed to fetch menu items", err, map[string]interface{}{
			"page": page,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"pagination": pagination,
	})
}

// GetMenuItem returns a single menu item
// GET /api/menu/:id
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.menuService.GetMenuItem(id)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
			return
		}
		log.Error("Failed to fetch menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// GetCategories lists the distinct dish categories in use
// GET /api/menu/categories
func (ctrl *MenuController) GetCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.menuService.GetCategories()
	if err != nil {
		log.Error("Failed to fetch categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetRestaurants lists the distinct restaurants in use
// GET /api/menu/restaurants
func (ctrl *MenuController) GetRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurants, err := ctrl.menuService.GetRestaurants()
	if err != nil {
		log.Error("Failed to fetch restaurants", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
	})
}

func respondMenuInputError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrMenuInvalidPrice):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price must be greater than zero")
	case errors.Is(err, service.ErrMenuInvalidCategory):
		apperrors.BadRequest(c, apperrors.MenuInvalidCategory, "Invalid menu category")
	case errors.Is(err, service.ErrMenuInvalidPrepTime):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Preparation time must be between 5 and 120 minutes")
	case errors.Is(err, service.ErrMenuTooManyTags):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "A menu item can carry at most 5 tags")
	case errors.Is(err, service.ErrMenuDuplicateItem):
		apperrors.Conflict(c, apperrors.MenuDuplicateItem, "A dish with this name already exists for this restaurant")
	default:
		return false
	}
	return true
}

// CreateMenuItem adds a dish (admin)
// POST /api/menu
func (ctrl *MenuController) CreateMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid create menu item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid menu item data")
		return
	}

	item, err := ctrl.menuService.CreateMenuItem(adminID, input)
	if err != nil {
		if respondMenuInputError(c, err) {
			return
		}
		log.Error("Failed to create menu item", err, map[string]interface{}{
			"name": input.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Menu item created", map[string]interface{}{
		"menu_item_id": item.ID,
		"admin_id":     adminID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateMenuItem edits a dish (admin)
// PUT /api/menu/:id
func (ctrl *MenuController) UpdateMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid menu item data")
		return
	}

	item, err := ctrl.menuService.UpdateMenuItem(adminID, id, input)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
			return
		}
		if respondMenuInputError(c, err) {
			return
		}
		log.Error("Failed to update menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Menu item updated", map[string]interface{}{
		"menu_item_id": id,
		"admin_id":     adminID,
	})
	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// DeleteMenuItem removes a dish (admin)
// DELETE /api/menu/:id
func (ctrl *MenuController) DeleteMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.menuService.DeleteMenuItem(id); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
			return
		}
		log.Error("Failed to delete menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Menu item deleted", map[string]interface{}{
		"menu_item_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}
