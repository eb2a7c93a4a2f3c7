package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vitalbites/vitalbites-backend/internal/errors"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type CompleteRegistrationRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required,len=6"`
	Username string `json:"username" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
}

// UpdateProfileRequest carries the editable profile fields. Only the
// username can change; the mobile number is immutable after
// registration.
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

// SendOTP emails a login passcode
// POST /api/auth/send-otp
func (ctrl *AuthController) SendOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid send OTP request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email is required")
		return
	}

	retryAfter, err := ctrl.authService.SendOTP(req.Email)
	if err != nil {
		if errors.Is(err, service.ErrOTPThrottled) {
			apperrors.TooManyRequests(c, apperrors.RateOTPResend,
				"Please wait before requesting another OTP", retryAfter)
			return
		}
		log.Error("Failed to send OTP", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Failed to send OTP. Please try again")
		return
	}

	log.Info("OTP dispatched", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "OTP sent to your email",
	})
}

// VerifyOTP exchanges a passcode for a session token
// POST /api/auth/verify-otp
func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verify OTP request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and a 6 digit OTP are required")
		return
	}

	result, err := ctrl.authService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		ctrl.respondOTPError(c, err, req.Email)
		return
	}

	if result.NeedDetails {
		c.JSON(http.StatusOK, gin.H{
			"needDetails": true,
			"message":     "Please complete your registration",
		})
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusOK, gin.H{
		"needDetails": false,
		"token":       result.Token,
		"user":        result.User,
	})
}

// CompleteRegistration sets the profile details of a first-time account
// POST /api/auth/complete-registration
func (ctrl *AuthController) CompleteRegistration(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid complete registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email, OTP, username and mobile are required")
		return
	}

	result, err := ctrl.authService.CompleteRegistration(req.Email, req.OTP, req.Username, req.Mobile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Username must be 2-50 letters and spaces")
		case errors.Is(err, service.ErrInvalidMobile):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Mobile must be a valid +91 number")
		case errors.Is(err, service.ErrMobileExists):
			apperrors.Conflict(c, apperrors.AuthMobileExists, "This mobile number is already registered")
		default:
			ctrl.respondOTPError(c, err, req.Email)
		}
		return
	}

	log.Info("Registration completed", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusCreated, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// respondOTPError maps passcode verification failures to responses.
func (ctrl *AuthController) respondOTPError(c *gin.Context, err error, email string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOTPNotRequested):
		apperrors.BadRequest(c, apperrors.AuthOTPNotRequested, "No OTP pending for this email. Request a new one")
	case errors.Is(err, service.ErrOTPExpired):
		apperrors.BadRequest(c, apperrors.AuthOTPExpired, "OTP has expired. Request a new one")
	case errors.Is(err, service.ErrOTPInvalid):
		apperrors.BadRequest(c, apperrors.AuthOTPInvalid, "Incorrect OTP")
	default:
		log.Error("OTP verification failed", err, map[string]interface{}{
			"email": email,
		})
		apperrors.InternalError(c, "")
	}
}

// VerifySession introspects the presented token and returns the
// account it belongs to
// GET /api/auth/verify
func (ctrl *AuthController) VerifySession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, "This account no longer exists")
			return
		}
		log.Error("Failed to verify session", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  user,
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Account not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateProfile updates the authenticated user's display name
// PUT /api/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Username is required")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Username must be 2-50 letters and spaces")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "Account not found")
		default:
			log.Error("Failed to update profile", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
