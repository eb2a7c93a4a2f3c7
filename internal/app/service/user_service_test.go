package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (UserService, *model.User, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	userService := NewUserService(userRepo, addressRepo)

	adminMobile := "+919899999999"
	admin := &model.User{
		Email:    "admin@example.com",
		Username: "Admin User",
		Mobile:   &adminMobile,
		Role:     model.RoleAdmin,
	}
	testDB.Create(admin)

	customerMobile := "+919876543210"
	customer := &model.User{
		Email:    "customer@example.com",
		Username: "Regular Customer",
		Mobile:   &customerMobile,
		Role:     model.RoleUser,
	}
	testDB.Create(customer)

	return userService, admin, customer, testDB
}

func TestUserService_ListUsers(t *testing.T) {
	userService, _, _, testDB := setupUserServiceTest(t)

	for i := 0; i < 3; i++ {
		mobile := fmt.Sprintf("+91981000000%d", i)
		testDB.Create(&model.User{
			Email:    fmt.Sprintf("extra%d@example.com", i),
			Username: fmt.Sprintf("Extra User %d", i),
			Mobile:   &mobile,
			Role:     model.RoleUser,
		})
	}

	users, pagination, err := userService.ListUsers("", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, users, 5)
	assert.Equal(t, int64(5), pagination.TotalItems)

	users, _, err = userService.ListUsers("extra1", 1, 20)
	assert.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "extra1@example.com", users[0].Email)
}

func TestUserService_UpdateRole(t *testing.T) {
	userService, admin, customer, _ := setupUserServiceTest(t)

	promoted, err := userService.UpdateRole(admin.ID, customer.ID, model.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	demoted, err := userService.UpdateRole(admin.ID, customer.ID, model.RoleUser)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, demoted.Role)
}

func TestUserService_UpdateRole_SelfDemotion(t *testing.T) {
	userService, admin, _, _ := setupUserServiceTest(t)

	_, err := userService.UpdateRole(admin.ID, admin.ID, model.RoleUser)
	assert.ErrorIs(t, err, ErrSelfDemotion)
}

func TestUserService_UpdateRole_InvalidRole(t *testing.T) {
	userService, admin, customer, _ := setupUserServiceTest(t)

	_, err := userService.UpdateRole(admin.ID, customer.ID, model.UserRole("superadmin"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserService_UpdateRole_UserNotFound(t *testing.T) {
	userService, admin, _, _ := setupUserServiceTest(t)

	_, err := userService.UpdateRole(admin.ID, 9999, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteUser(t *testing.T) {
	userService, admin, customer, _ := setupUserServiceTest(t)

	assert.NoError(t, userService.DeleteUser(admin.ID, customer.ID))
	assert.ErrorIs(t, userService.DeleteUser(admin.ID, customer.ID), ErrUserNotFound)
}

func TestUserService_DeleteUser_FreesUniqueFields(t *testing.T) {
	userService, admin, customer, testDB := setupUserServiceTest(t)

	require.NoError(t, userService.DeleteUser(admin.ID, customer.ID))

	// The email and mobile of a removed account must be free for a
	// fresh signup, not held hostage by a lingering row
	mobile := "+919876543210"
	replacement := &model.User{
		Email:    "customer@example.com",
		Username: "Returning Customer",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	assert.NoError(t, testDB.Create(replacement).Error)
}

func TestUserService_DeleteUser_SelfDeletion(t *testing.T) {
	userService, admin, _, _ := setupUserServiceTest(t)

	err := userService.DeleteUser(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfDeletion)
}

func TestUserService_GetUserAddresses(t *testing.T) {
	userService, _, customer, testDB := setupUserServiceTest(t)

	testDB.Create(&model.Address{
		UserID:    customer.ID,
		FullName:  "Regular Customer",
		Mobile:    "+919876543210",
		Street:    "12 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Pincode:   "560001",
		IsDefault: true,
	})

	addresses, err := userService.GetUserAddresses(customer.ID)
	assert.NoError(t, err)
	assert.Len(t, addresses, 1)

	_, err = userService.GetUserAddresses(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ListAllAddresses(t *testing.T) {
	userService, admin, customer, testDB := setupUserServiceTest(t)

	testDB.Create(&model.Address{
		UserID: customer.ID, FullName: "Regular Customer", Mobile: "+919876543210",
		Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001",
	})
	testDB.Create(&model.Address{
		UserID: admin.ID, FullName: "Admin User", Mobile: "+919899999999",
		Street: "4 Residency Road", City: "Bengaluru", State: "Karnataka", Pincode: "560025",
	})

	addresses, pagination, err := userService.ListAllAddresses(1, 20)
	assert.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)

	owners := []string{addresses[0].OwnerEmail, addresses[1].OwnerEmail}
	assert.ElementsMatch(t, []string{"admin@example.com", "customer@example.com"}, owners)
}
