package repository

import (
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

// AddressWithOwner is an address joined with the owning account, for
// the admin-side listing across all users.
type AddressWithOwner struct {
	model.Address
	OwnerEmail    string `json:"owner_email"`
	OwnerUsername string `json:"owner_username"`
}

type AddressRepository interface {
	Create(address *model.Address) error
	FindByID(id uint) (*model.Address, error)
	FindByUserID(userID uint) ([]model.Address, error)
	FindAll(page, limit int) ([]AddressWithOwner, int64, error)
	CountByUserID(userID uint) (int64, error)
	Update(address *model.Address) error
	UnsetDefaults(userID uint) error
	Delete(id uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id": address.UserID,
		"city":    address.City,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return nil
}

func (r *addressRepository) FindByID(id uint) (*model.Address, error) {
	logger.Debug("Finding address by ID in database", map[string]interface{}{
		"address_id": id,
	})

	var address model.Address
	if err := r.db.First(&address, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find address by ID in database", err, map[string]interface{}{
				"address_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Address found by ID in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})
	return &address, nil
}

func (r *addressRepository) FindByUserID(userID uint) ([]model.Address, error) {
	logger.Debug("Finding addresses by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	// Default address first, newest after that
	var addresses []model.Address
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		logger.Error("Failed to find addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) FindAll(page, limit int) ([]AddressWithOwner, int64, error) {
	logger.Debug("Finding all addresses in database", map[string]interface{}{
		"page":  page,
		"limit": limit,
	})

	var total int64
	if err := r.db.Model(&model.Address{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count addresses in database", err, nil)
		return nil, 0, err
	}

	var addresses []AddressWithOwner
	if err := r.db.Model(&model.Address{}).
		Select("addresses.*, users.email AS owner_email, users.username AS owner_username").
		Joins("LEFT JOIN users ON users.id = addresses.user_id").
		Order("addresses.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&addresses).Error; err != nil {
		logger.Error("Failed to find all addresses in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Addresses found in database", map[string]interface{}{
		"count": len(addresses),
		"total": total,
	})
	return addresses, total, nil
}

func (r *addressRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count addresses by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}

func (r *addressRepository) Update(address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    address.UserID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}

	logger.Debug("Address updated in database", map[string]interface{}{
		"address_id": address.ID,
	})
	return nil
}

func (r *addressRepository) UnsetDefaults(userID uint) error {
	logger.Debug("Unsetting default addresses in database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error; err != nil {
		logger.Error("Failed to unset default addresses in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(id uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": id,
	})

	if err := r.db.Delete(&model.Address{}, id).Error; err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}

	logger.Debug("Address deleted from database", map[string]interface{}{
		"address_id": id,
	})
	return nil
}
