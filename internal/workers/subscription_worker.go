package workers

import (
	"context"
	"time"

	"dukaan_backend/internal/config"
	"dukaan_backend/internal/logger"
	"dukaan_backend/internal/repositories"

	"gorm.io/gorm"
)

// SubscriptionWorker moves lapsed subscriptions into their grace
// period and purges dead refresh tokens.
type SubscriptionWorker struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewSubscriptionWorker(
	db *gorm.DB,
	subscriptionRepo repositories.SubscriptionRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *SubscriptionWorker {
	return &SubscriptionWorker{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.sweepExpiredSubscriptions(ctx)
	go w.purgeExpiredRefreshTokens(ctx)
}

// sweepExpiredSubscriptions runs hourly. A subscription stays usable
// through its grace period; access actually ends when the paywall sees
// the grace deadline in the past.
func (w *SubscriptionWorker) sweepExpiredSubscriptions(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker stopped")
			return
		case <-ticker.C:
			w.sweepOnce(time.Now())
		}
	}
}

func (w *SubscriptionWorker) sweepOnce(now time.Time) {
	subs, err := w.subscriptionRepo.FindExpiredActive(w.db, now)
	if err != nil {
		logger.WorkerLog("subscription", "find expired", err)
		return
	}

	graceDays := config.GetConfig().Subscription.GraceDays
	swept := 0
	for i := range subs {
		sub := &subs[i]
		if sub.GracePeriodEnd == nil {
			sub.EnterGracePeriod(now, graceDays)
		} else {
			// Already in grace; just drop the active flag.
			sub.Active = false
		}
		if err := w.subscriptionRepo.UpdateSubscription(w.db, sub); err != nil {
			logger.WorkerLog("subscription", "enter grace period", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		logger.Info("subscriptions moved to grace period", "count", swept)
	}
}

func (w *SubscriptionWorker) purgeExpiredRefreshTokens(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := w.refreshTokenRepo.DeleteExpired(w.db)
			if err != nil {
				logger.WorkerLog("subscription", "purge refresh tokens", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired refresh tokens purged", "count", removed)
			}
		}
	}
}
