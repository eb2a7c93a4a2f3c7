package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"gorm.io/gorm"
)

// captureMailer records the last passcode instead of sending mail
type captureMailer struct {
	lastEmail string
	lastOTP   string
}

func (m *captureMailer) SendOTP(toEmail, otp string) error {
	m.lastEmail = toEmail
	m.lastOTP = otp
	return nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *captureMailer, repository.UserRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	mail := &captureMailer{}
	jwtCfg := &config.JWTConfig{Secret: "test-secret", TokenExpiry: time.Hour}
	authService := NewAuthService(userRepo, mail, jwtCfg)

	return authService, mail, userRepo, testDB
}

func TestAuthService_SendOTP_CreatesAccount(t *testing.T) {
	authService, mail, userRepo, _ := setupAuthServiceTest(t)

	retryAfter, err := authService.SendOTP("new@example.com")
	assert.NoError(t, err)
	assert.Equal(t, 0, retryAfter)
	assert.Equal(t, "new@example.com", mail.lastEmail)
	assert.Len(t, mail.lastOTP, 6)

	user, err := userRepo.FindByEmail("new@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.OTPHash)
	assert.NotNil(t, user.OTPExpiresAt)
	assert.False(t, user.IsRegistered())
}

func TestAuthService_SendOTP_Throttled(t *testing.T) {
	authService, _, _, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("user@example.com")
	require.NoError(t, err)

	retryAfter, err := authService.SendOTP("user@example.com")
	assert.ErrorIs(t, err, ErrOTPThrottled)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 30)
}

func TestAuthService_VerifyOTP_NeedDetails(t *testing.T) {
	authService, mail, _, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("fresh@example.com")
	require.NoError(t, err)

	result, err := authService.VerifyOTP("fresh@example.com", mail.lastOTP)
	assert.NoError(t, err)
	assert.True(t, result.NeedDetails)
	assert.Empty(t, result.Token)

	// Passcode stays alive so registration can finish with it
	result, err = authService.VerifyOTP("fresh@example.com", mail.lastOTP)
	assert.NoError(t, err)
	assert.True(t, result.NeedDetails)
}

func TestAuthService_VerifyOTP_RegisteredUser(t *testing.T) {
	authService, mail, userRepo, testDB := setupAuthServiceTest(t)

	mobile := "+919876543210"
	user := &model.User{
		Email:    "reg@example.com",
		Username: "Regular User",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	_, err := authService.SendOTP("reg@example.com")
	require.NoError(t, err)

	result, err := authService.VerifyOTP("reg@example.com", mail.lastOTP)
	assert.NoError(t, err)
	assert.False(t, result.NeedDetails)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)

	// Passcode is single use for a registered account
	_, err = authService.VerifyOTP("reg@example.com", mail.lastOTP)
	assert.ErrorIs(t, err, ErrOTPNotRequested)

	stored, err := userRepo.FindByEmail("reg@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.OTPHash)
	assert.Nil(t, stored.OTPExpiresAt)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	authService, mail, _, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if mail.lastOTP == wrong {
		wrong = "000001"
	}

	_, err = authService.VerifyOTP("user@example.com", wrong)
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	authService, mail, userRepo, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("user@example.com")
	require.NoError(t, err)

	user, err := userRepo.FindByEmail("user@example.com")
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	user.OTPExpiresAt = &past
	require.NoError(t, userRepo.Update(user))

	_, err = authService.VerifyOTP("user@example.com", mail.lastOTP)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestAuthService_VerifyOTP_NotRequested(t *testing.T) {
	authService, _, _, _ := setupAuthServiceTest(t)

	_, err := authService.VerifyOTP("nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotRequested)
}

func TestAuthService_CompleteRegistration_Success(t *testing.T) {
	authService, mail, userRepo, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("signup@example.com")
	require.NoError(t, err)

	result, err := authService.CompleteRegistration("signup@example.com", mail.lastOTP, "New Customer", "+919812345678")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.NeedDetails)

	user, err := userRepo.FindByEmail("signup@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsRegistered())
	assert.Equal(t, "New Customer", user.Username)
	assert.Empty(t, user.OTPHash)
}

func TestAuthService_CompleteRegistration_MobileExists(t *testing.T) {
	authService, mail, _, testDB := setupAuthServiceTest(t)

	mobile := "+919812345678"
	testDB.Create(&model.User{
		Email:    "taken@example.com",
		Username: "Existing User",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	})

	_, err := authService.SendOTP("signup@example.com")
	require.NoError(t, err)

	_, err = authService.CompleteRegistration("signup@example.com", mail.lastOTP, "New Customer", mobile)
	assert.ErrorIs(t, err, ErrMobileExists)
}

func TestAuthService_CompleteRegistration_InvalidDetails(t *testing.T) {
	authService, mail, _, _ := setupAuthServiceTest(t)

	_, err := authService.SendOTP("signup@example.com")
	require.NoError(t, err)

	_, err = authService.CompleteRegistration("signup@example.com", mail.lastOTP, "X", "+919812345678")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = authService.CompleteRegistration("signup@example.com", mail.lastOTP, "Valid Name", "+911234567890")
	assert.ErrorIs(t, err, ErrInvalidMobile)

	_, err = authService.CompleteRegistration("signup@example.com", mail.lastOTP, "Valid Name", "9812345678")
	assert.ErrorIs(t, err, ErrInvalidMobile)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, _, testDB := setupAuthServiceTest(t)

	mobile := "+919876543210"
	user := &model.User{
		Email:    "profile@example.com",
		Username: "Old Name",
		Mobile:   &mobile,
		Role:     model.RoleUser,
	}
	testDB.Create(user)

	updated, err := authService.UpdateProfile(user.ID, "New Name")
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Username)

	// The mobile number is anchored at registration and rides along untouched
	assert.Equal(t, mobile, *updated.Mobile)

	_, err = authService.UpdateProfile(user.ID, "X")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = authService.UpdateProfile(9999, "Valid Name")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
