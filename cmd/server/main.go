package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/internal/app/controller"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/internal/app/service"
	"github.com/vitalbites/vitalbites-backend/internal/db"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
	"github.com/vitalbites/vitalbites-backend/internal/router"
	"github.com/vitalbites/vitalbites-backend/internal/scheduler"
	"github.com/vitalbites/vitalbites-backend/internal/storage"
	"github.com/vitalbites/vitalbites-backend/internal/websocket"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
	"github.com/vitalbites/vitalbites-backend/pkg/mailer"
	"github.com/vitalbites/vitalbites-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting VitalBites Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Make sure the bootstrap admin exists
	if err := db.SeedAdmin(db.GetDB(), cfg.Server.AdminEmail); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (rate limiting is best effort without it)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	menuRepo := repository.NewMenuRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Order update feed
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	otpMailer := mailer.New(&cfg.SMTP)
	authService := service.NewAuthService(userRepo, otpMailer, &cfg.JWT)
	addressService := service.NewAddressService(addressRepo)
	menuService := service.NewMenuService(menuRepo)
	cartService := service.NewCartService(cartRepo, menuRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, addressRepo, hub)
	userService := service.NewUserService(userRepo, addressRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	addressController := controller.NewAddressController(addressService)
	menuController := controller.NewMenuController(menuService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	adminController := controller.NewAdminController(userService)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	// Idle cart cleanup
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo)
	if err := cartCleanup.Start(); err != nil {
		logger.Warn("Failed to start cart cleanup scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		addressController,
		menuController,
		cartController,
		orderController,
		adminController,
		uploadController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
