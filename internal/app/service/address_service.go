package service

import (
	"errors"
	"regexp"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrInvalidAddress  = errors.New("address fields invalid")
)

var pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// AddressInput carries the writable fields of an address.
type AddressInput struct {
	FullName             string `json:"full_name" binding:"required"`
	Mobile               string `json:"mobile" binding:"required"`
	Street               string `json:"street" binding:"required"`
	City                 string `json:"city" binding:"required"`
	State                string `json:"state" binding:"required"`
	Pincode              string `json:"pincode" binding:"required"`
	DeliveryInstructions string `json:"delivery_instructions"`
	IsDefault            bool   `json:"is_default"`
}

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.Address, error)
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) GetUserAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User addresses fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func validateAddressInput(input AddressInput) error {
	if input.FullName == "" || input.Street == "" || input.City == "" || input.State == "" {
		return ErrInvalidAddress
	}
	if !mobileRegex.MatchString(input.Mobile) {
		return ErrInvalidAddress
	}
	if !pincodeRegex.MatchString(input.Pincode) {
		return ErrInvalidAddress
	}
	return nil
}

// CreateAddress stores a new address. The first address of a user always
// becomes the default, regardless of the requested flag.
func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
		"city":    input.City,
	})

	if err := validateAddressInput(input); err != nil {
		logger.Warn("Address rejected: invalid fields", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	isDefault := input.IsDefault || count == 0
	if isDefault && count > 0 {
		if err := s.addressRepo.UnsetDefaults(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:               userID,
		FullName:             input.FullName,
		Mobile:               input.Mobile,
		Street:               input.Street,
		City:                 input.City,
		State:                input.State,
		Pincode:              input.Pincode,
		DeliveryInstructions: input.DeliveryInstructions,
		IsDefault:            isDefault,
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Address created successfully", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) findOwnedAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found", map[string]interface{}{
				"address_id": addressID,
			})
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if address.UserID != userID {
		logger.Warn("Address access denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.UnsetDefaults(userID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	address.FullName = input.FullName
	address.Mobile = input.Mobile
	address.Street = input.Street
	address.City = input.City
	address.State = input.State
	address.Pincode = input.Pincode
	address.DeliveryInstructions = input.DeliveryInstructions

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return address, nil
}

// DeleteAddress removes an address. Deleting the default promotes the
// first remaining address so the book keeps exactly one default.
func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return err
	}

	wasDefault := address.IsDefault
	if err := s.addressRepo.Delete(addressID); err != nil {
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	if wasDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			promoted := remaining[0]
			promoted.IsDefault = true
			if err := s.addressRepo.Update(&promoted); err != nil {
				logger.Error("Failed to promote replacement default address", err, map[string]interface{}{
					"address_id": promoted.ID,
				})
				return err
			}
			logger.Info("Replacement default address promoted", map[string]interface{}{
				"user_id":    userID,
				"address_id": promoted.ID,
			})
		}
	}

	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) (*model.Address, error) {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.findOwnedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.UnsetDefaults(userID); err != nil {
		return nil, err
	}

	address.IsDefault = true
	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}

	logger.Info("Default address set successfully", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}
