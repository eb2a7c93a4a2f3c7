package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vitalbites/vitalbites-backend/internal/app/repository"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
)

// cartIdleTTL is how long a cart may sit untouched before cleanup.
const cartIdleTTL = 30 * 24 * time.Hour

// CartCleanupScheduler drops carts nobody touched for a month.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
	}
}

// Start registers the nightly cleanup job
func (s *CartCleanupScheduler) Start() error {
	// Daily at 03:00, off-peak for a food ordering service
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting idle cart cleanup", nil)

		cutoff := time.Now().Add(-cartIdleTTL)
		removed, err := s.cartRepo.DeleteIdleBefore(cutoff)
		if err != nil {
			logger.Error("Failed to clean up idle carts", err)
			return
		}

		logger.Info("Idle cart cleanup completed", map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the scheduler
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
