package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // user permission level

const (
	RoleUser  UserRole = "user"  // regular customer
	RoleAdmin UserRole = "admin" // back-office administrator
)

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                          // user ID
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`             // login email (identity anchor)
	Username      string         `json:"username"`                                      // display name, empty until registration completes
	Mobile        *string        `gorm:"uniqueIndex" json:"mobile,omitempty"`           // +91 mobile, unique once set
	OTPHash       string         `json:"-"`                                             // bcrypt hash of the active passcode
	OTPExpiresAt  *time.Time     `json:"-"`                                             // passcode expiry
	LastOTPSentAt *time.Time     `json:"-"`                                             // resend throttle anchor
	Role          UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`   // permission level
	CreatedAt     time.Time      `json:"created_at"`                                    // creation time
	UpdatedAt     time.Time      `json:"updated_at"`                                    // last update time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                // soft delete marker

	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"` // shipping address book
}

func (User) TableName() string {
	return "users"
}

// IsRegistered reports whether the account has completed its profile.
// Accounts exist from the first OTP request, before any profile data.
func (u *User) IsRegistered() bool {
	return u.Username != "" && u.Mobile != nil && *u.Mobile != ""
}
