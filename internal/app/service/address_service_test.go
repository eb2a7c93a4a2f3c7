package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (AddressService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	addressRepo := repository.NewAddressRepository(testDB)
	addressService := NewAddressService(addressRepo)

	mobile := "+919876543210"
	user := &model.User{
		Email:    "test@example.com",
		Username: "Test User",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	return addressService, user, testDB
}

func validAddressInput() AddressInput {
	return AddressInput{
		FullName: "Test User",
		Mobile:   "+919876543210",
		Street:   "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}
}

func TestAddressService_CreateAddress_FirstBecomesDefault(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	input := validAddressInput()
	input.IsDefault = false

	address, err := addressService.CreateAddress(user.ID, input)
	assert.NoError(t, err)
	assert.True(t, address.IsDefault)
}

func TestAddressService_CreateAddress_RequestedDefaultUnsetsOthers(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	first, err := addressService.CreateAddress(user.ID, validAddressInput())
	require.NoError(t, err)

	second := validAddressInput()
	second.Street = "45 Brigade Road"
	second.IsDefault = true

	created, err := addressService.CreateAddress(user.ID, second)
	assert.NoError(t, err)
	assert.True(t, created.IsDefault)

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.NotEqual(t, first.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAddressService_CreateAddress_Invalid(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	bad := validAddressInput()
	bad.Pincode = "056001" // leading zero

	_, err := addressService.CreateAddress(user.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	bad = validAddressInput()
	bad.Mobile = "9876543210"
	_, err = addressService.CreateAddress(user.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	bad = validAddressInput()
	bad.City = ""
	_, err = addressService.CreateAddress(user.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAddressService_UpdateAddress(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	address, err := addressService.CreateAddress(user.ID, validAddressInput())
	require.NoError(t, err)

	input := validAddressInput()
	input.Street = "99 Residency Road"

	updated, err := addressService.UpdateAddress(user.ID, address.ID, input)
	assert.NoError(t, err)
	assert.Equal(t, "99 Residency Road", updated.Street)
}

func TestAddressService_UpdateAddress_WrongUser(t *testing.T) {
	addressService, user, testDB := setupAddressServiceTest(t)

	address, err := addressService.CreateAddress(user.ID, validAddressInput())
	require.NoError(t, err)

	otherMobile := "+919812345678"
	other := &model.User{Email: "other@example.com", Username: "Other User", Mobile: &otherMobile, Role: model.RoleUser}
	testDB.Create(other)

	_, err = addressService.UpdateAddress(other.ID, address.ID, validAddressInput())
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressService_DeleteAddress_PromotesNewDefault(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	first, err := addressService.CreateAddress(user.ID, validAddressInput())
	require.NoError(t, err)

	second := validAddressInput()
	second.Street = "45 Brigade Road"
	_, err = addressService.CreateAddress(user.ID, second)
	require.NoError(t, err)

	// first is the default; deleting it must promote the survivor
	require.NoError(t, addressService.DeleteAddress(user.ID, first.ID))

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)
}

func TestAddressService_DeleteAddress_NotFound(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	err := addressService.DeleteAddress(user.ID, 9999)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressService_SetDefaultAddress(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	first, err := addressService.CreateAddress(user.ID, validAddressInput())
	require.NoError(t, err)

	second := validAddressInput()
	second.Street = "45 Brigade Road"
	created, err := addressService.CreateAddress(user.ID, second)
	require.NoError(t, err)

	updated, err := addressService.SetDefaultAddress(user.ID, created.ID)
	assert.NoError(t, err)
	assert.True(t, updated.IsDefault)

	addresses, err := addressService.GetUserAddresses(user.ID)
	require.NoError(t, err)
	for _, a := range addresses {
		if a.ID == first.ID {
			assert.False(t, a.IsDefault)
		}
	}
}
