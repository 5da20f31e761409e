package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
)

// TokenCleanupScheduler purges refresh tokens long past their expiry.
// Revoked-but-unexpired rows are kept: they are what reuse detection
// matches against.
type TokenCleanupScheduler struct {
	cron      *cron.Cron
	tokenRepo repository.TokenRepository
}

// retentionGrace keeps expired rows around briefly so reuse of a
// just-expired token still trips detection instead of reading as unknown.
const retentionGrace = 24 * time.Hour

func NewTokenCleanupScheduler(tokenRepo repository.TokenRepository) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		cron:      cron.New(),
		tokenRepo: tokenRepo,
	}
}

func (s *TokenCleanupScheduler) Start() error {
	// Daily at 03:00, off the traffic peak.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().Add(-retentionGrace)
		count, err := s.tokenRepo.DeleteExpiredBefore(cutoff)
		if err != nil {
			logger.Error("Failed to purge expired refresh tokens", err)
			return
		}
		logger.Info("Expired refresh tokens purged", map[string]interface{}{
			"count": count,
		})
	})
	if err != nil {
		logger.Error("Failed to schedule refresh token cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Refresh token cleanup scheduler started (daily at 03:00)", nil)
	return nil
}

func (s *TokenCleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Refresh token cleanup scheduler stopped", nil)
}
