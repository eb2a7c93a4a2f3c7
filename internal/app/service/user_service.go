package service

import (
	"errors"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole  = errors.New("invalid role")
	ErrSelfDemotion = errors.New("admins cannot change their own role")
	ErrSelfDeletion = errors.New("admins cannot delete their own account")
)

// UserService covers the admin side of account management.
type UserService interface {
	ListUsers(search string, page, limit int) ([]model.User, Pagination, error)
	UpdateRole(adminID, userID uint, role model.UserRole) (*model.User, error)
	DeleteUser(adminID, userID uint) error
	GetUserAddresses(userID uint) ([]model.Address, error)
	ListAllAddresses(page, limit int) ([]repository.AddressWithOwner, Pagination, error)
}

type userService struct {
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
}

func NewUserService(userRepo repository.UserRepository, addressRepo repository.AddressRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
	}
}

func (s *userService) ListUsers(search string, page, limit int) ([]model.User, Pagination, error) {
	logger.Debug("Listing users", map[string]interface{}{
		"search": search,
		"page":   page,
	})

	page, limit = normalizePage(page, limit)
	users, total, err := s.userRepo.FindAll(search, page, limit)
	if err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"search": search,
		})
		return nil, Pagination{}, err
	}

	logger.Info("Users listed successfully", map[string]interface{}{
		"count": len(users),
		"total": total,
	})
	return users, buildPagination(page, limit, total), nil
}

// UpdateRole changes a user's role. Admins cannot touch their own role,
// otherwise a lone admin could lock everyone out of administration.
func (s *userService) UpdateRole(adminID, userID uint, role model.UserRole) (*model.User, error) {
	logger.Info("Updating user role", map[string]interface{}{
		"admin_id": adminID,
		"user_id":  userID,
		"role":     role,
	})

	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if adminID == userID {
		logger.Warn("Role update rejected: self demotion", map[string]interface{}{
			"admin_id": adminID,
		})
		return nil, ErrSelfDemotion
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User role updated successfully", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *userService) DeleteUser(adminID, userID uint) error {
	logger.Info("Deleting user", map[string]interface{}{
		"admin_id": adminID,
		"user_id":  userID,
	})

	if adminID == userID {
		logger.Warn("User deletion rejected: self deletion", map[string]interface{}{
			"admin_id": adminID,
		})
		return ErrSelfDeletion
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User deleted successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *userService) GetUserAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Fetching addresses for user", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch addresses for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return addresses, nil
}

// ListAllAddresses pages through every address in the system, each
// joined with its owning account.
func (s *userService) ListAllAddresses(page, limit int) ([]repository.AddressWithOwner, Pagination, error) {
	logger.Debug("Listing all addresses", map[string]interface{}{
		"page": page,
	})

	page, limit = normalizePage(page, limit)
	addresses, total, err := s.addressRepo.FindAll(page, limit)
	if err != nil {
		logger.Error("Failed to list all addresses", err, nil)
		return nil, Pagination{}, err
	}
	return addresses, buildPagination(page, limit, total), nil
}
