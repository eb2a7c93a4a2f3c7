package db

import (
	"fmt"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	appLogger "github.com/vitalbites/vitalbites-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs the schema migrations for every model
func Migrate(db *gorm.DB) error {
	appLogger.Info("Running database migrations", nil)

	err := db.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.MenuItem{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderStatusHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	appLogger.Info("Database migrations completed successfully", nil)
	return nil
}

// SeedAdmin makes sure the bootstrap admin account exists. Without it a
// fresh deployment has no way to reach the admin endpoints.
func SeedAdmin(db *gorm.DB, email string) error {
	if email == "" {
		return nil
	}

	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role != model.RoleAdmin {
			user.Role = model.RoleAdmin
			if err := db.Save(&user).Error; err != nil {
				return fmt.Errorf("failed to promote admin user: %w", err)
			}
			appLogger.Info("Existing user promoted to admin", map[string]interface{}{
				"email": email,
			})
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	admin := &model.User{
		Email: email,
		Role:  model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	appLogger.Info("Bootstrap admin account created", map[string]interface{}{
		"email": email,
	})
	return nil
}
