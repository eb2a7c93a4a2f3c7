package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
)

// AdminController covers user administration.
type AdminController struct {
	userService service.UserService
}

func NewAdminController(userService service.UserService) *AdminController {
	return &AdminController{
		userService: userService,
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListUsers lists accounts with search and pagination
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePageParams(c)
	users, pagination, err := ctrl.userService.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}

// UpdateUserRole changes an account's role
// PUT /api/admin/users/:id/role
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Role is required")
		return
	}

	user, err := ctrl.userService.UpdateRole(adminID, userID, model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Role must be user or admin")
		case errors.Is(err, service.ErrSelfDemotion):
			apperrors.BadRequest(c, apperrors.UserSelfDemotion, "You cannot change your own role")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		default:
			log.Error("Failed to update user role", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("User role updated", map[string]interface{}{
		"admin_id": adminID,
		"user_id":  userID,
		"role":     req.Role,
	})
	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// DeleteUser removes an account
// DELETE /api/admin/users/:id
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(adminID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeletion):
			apperrors.BadRequest(c, apperrors.UserSelfDeletion, "You cannot delete your own account")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		default:
			log.Error("Failed to delete user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("User deleted by admin", map[string]interface{}{
		"admin_id": adminID,
		"user_id":  userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// GetUserAddresses shows a user's address book
// GET /api/admin/users/:id/addresses
func (ctrl *AdminController) GetUserAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	addresses, err := ctrl.userService.GetUserAddresses(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// ListAllAddresses shows every address in the system with its owner
// GET /api/admin/addresses
func (ctrl *AdminController) ListAllAddresses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit := parsePageParams(c)
	addresses, pagination, err := ctrl.userService.ListAllAddresses(page, limit)
	if err != nil {
		log.Error("Failed to list all addresses", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses":  addresses,
		"pagination": pagination,
	})
}
