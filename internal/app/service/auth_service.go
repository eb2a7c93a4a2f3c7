package service

import (
	"errors"
	"math"
	"regexp"
	"time"

	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"github.com/vitalbites/vitalbites-backend/pkg/mailer"
	"github.com/vitalbites/vitalbites-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOTPThrottled     = errors.New("otp resend requested too soon")
	ErrOTPNotRequested  = errors.New("no otp pending for this email")
	ErrOTPExpired       = errors.New("otp expired")
	ErrOTPInvalid       = errors.New("otp invalid")
	ErrMobileExists     = errors.New("mobile number already registered")
	ErrInvalidUsername  = errors.New("username must be 2-50 letters and spaces")
	ErrInvalidMobile    = errors.New("mobile must be a valid +91 number")
	ErrUserNotFound     = errors.New("user not found")
)

const (
	otpValidity       = 10 * time.Minute // passcode lifetime
	otpResendCooldown = 30 * time.Second // minimum gap between sends
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z ]{2,50}$`)
	mobileRegex   = regexp.MustCompile(`^\+91[6-9][0-9]{9}$`)
)

// AuthResult is the outcome of a successful OTP verification. When the
// account has no profile yet, NeedDetails is set and no token is issued.
type AuthResult struct {
	Token       string      `json:"token,omitempty"`
	User        *model.User `json:"user,omitempty"`
	NeedDetails bool        `json:"needDetails"`
}

type AuthService interface {
	SendOTP(email string) (retryAfter int, err error)
	VerifyOTP(email, otp string) (*AuthResult, error)
	CompleteRegistration(email, otp, username, mobile string) (*AuthResult, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, username string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, m mailer.Mailer, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   m,
		jwtCfg:   jwtCfg,
	}
}

// SendOTP issues a fresh passcode for the email, creating the account on
// first contact. Returns the cooldown remainder in seconds when throttled.
func (s *authService) SendOTP(email string) (int, error) {
	logger.Info("Sending OTP", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to look up user for OTP", err, map[string]interface{}{
				"email": email,
			})
			return 0, err
		}
		user = &model.User{Email: email, Role: model.RoleUser}
		if err := s.userRepo.Create(user); err != nil {
			logger.Error("Failed to create user for OTP", err, map[string]interface{}{
				"email": email,
			})
			return 0, err
		}
		logger.Info("New account created on first OTP request", map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
	}

	if user.LastOTPSentAt != nil {
		elapsed := time.Since(*user.LastOTPSentAt)
		if elapsed < otpResendCooldown {
			retryAfter := int(math.Ceil((otpResendCooldown - elapsed).Seconds()))
			logger.Warn("OTP resend throttled", map[string]interface{}{
				"email":       email,
				"retry_after": retryAfter,
			})
			return retryAfter, ErrOTPThrottled
		}
	}

	otp, err := util.GenerateOTP()
	if err != nil {
		logger.Error("Failed to generate OTP", err, map[string]interface{}{
			"email": email,
		})
		return 0, err
	}

	hash, err := util.HashOTP(otp)
	if err != nil {
		logger.Error("Failed to hash OTP", err, map[string]interface{}{
			"email": email,
		})
		return 0, err
	}

	now := time.Now()
	expiresAt := now.Add(otpValidity)
	user.OTPHash = hash
	user.OTPExpiresAt = &expiresAt
	user.LastOTPSentAt = &now
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to store OTP", err, map[string]interface{}{
			"email": email,
		})
		return 0, err
	}

	if err := s.mailer.SendOTP(email, otp); err != nil {
		// Passcode is already stored, delivery alone failed
		return 0, err
	}

	logger.Info("OTP sent successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return 0, nil
}

// VerifyOTP checks the passcode. A fully registered account gets a
// session token and its passcode cleared. An account without profile
// details keeps the passcode alive so registration can finish with it.
func (s *authService) VerifyOTP(email, otp string) (*AuthResult, error) {
	logger.Info("Verifying OTP", map[string]interface{}{
		"email": email,
	})

	user, err := s.checkOTP(email, otp)
	if err != nil {
		return nil, err
	}

	if !user.IsRegistered() {
		logger.Info("OTP verified, profile details required", map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return &AuthResult{NeedDetails: true}, nil
	}

	user.OTPHash = ""
	user.OTPExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to clear OTP after verification", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtCfg.Secret, s.jwtCfg.TokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return &AuthResult{Token: token, User: user}, nil
}

// CompleteRegistration finishes a first-time signup. The passcode is
// verified again so the profile details cannot be set without it.
func (s *authService) CompleteRegistration(email, otp, username, mobile string) (*AuthResult, error) {
	logger.Info("Completing registration", map[string]interface{}{
		"email": email,
	})

	if !usernameRegex.MatchString(username) {
		logger.Warn("Registration rejected: invalid username", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidUsername
	}
	if !mobileRegex.MatchString(mobile) {
		logger.Warn("Registration rejected: invalid mobile", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidMobile
	}

	user, err := s.checkOTP(email, otp)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByMobile(mobile)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check mobile uniqueness", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil && existing.ID != user.ID {
		logger.Warn("Registration rejected: mobile already registered", map[string]interface{}{
			"email": email,
		})
		return nil, ErrMobileExists
	}

	user.Username = username
	user.Mobile = &mobile
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to save registration details", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtCfg.Secret, s.jwtCfg.TokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Registration completed successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return &AuthResult{Token: token, User: user}, nil
}

// checkOTP loads the account and validates the passcode against it.
func (s *authService) checkOTP(email, otp string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("OTP verification failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, ErrOTPNotRequested
		}
		logger.Error("Failed to look up user for OTP verification", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if user.OTPHash == "" || user.OTPExpiresAt == nil {
		logger.Warn("OTP verification failed: no passcode pending", map[string]interface{}{
			"email": email,
		})
		return nil, ErrOTPNotRequested
	}

	if time.Now().After(*user.OTPExpiresAt) {
		logger.Warn("OTP verification failed: passcode expired", map[string]interface{}{
			"email": email,
		})
		return nil, ErrOTPExpired
	}

	if !util.CheckOTP(otp, user.OTPHash) {
		logger.Warn("OTP verification failed: passcode mismatch", map[string]interface{}{
			"email": email,
		})
		return nil, ErrOTPInvalid
	}

	return user, nil
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	logger.Debug("Fetching user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the display name. The mobile number is fixed
// at registration; it anchors order deliveries and cannot be edited
// through the profile.
func (s *authService) UpdateProfile(userID uint, username string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	user.Username = username

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}
