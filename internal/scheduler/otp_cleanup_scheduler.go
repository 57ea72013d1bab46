package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
)

// OTPCleanupScheduler clears expired one-time passcodes so stale codes
// cannot linger on user rows indefinitely.
type OTPCleanupScheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
}

func NewOTPCleanupScheduler(userRepo repository.UserRepository) *OTPCleanupScheduler {
	return &OTPCleanupScheduler{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

func (s *OTPCleanupScheduler) Start() error {
	// Every 15 minutes. Expiry is still enforced at verification time;
	// this only scrubs the stored codes.
	_, err := s.cron.AddFunc("*/15 * * * *", func() {
		cleared, err := s.userRepo.ClearExpiredOTPs()
		if err != nil {
			logger.Error("Failed to clear expired OTPs", err)
			return
		}
		if cleared > 0 {
			logger.Info("Cleared expired OTPs", map[string]interface{}{
				"count": cleared,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to add OTP cleanup cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("OTP cleanup scheduler started (every 15 minutes)", nil)

	return nil
}

func (s *OTPCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("OTP cleanup scheduler stopped", nil)
}
