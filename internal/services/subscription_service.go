package services

import (
	"time"

	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SubscriptionService interface {
	ListPlans(db *gorm.DB) ([]models.SubscriptionPlan, error)
	GetStatus(db *gorm.DB, userID string) (*dto.SubscriptionStatus, error)
	StartTrial(db *gorm.DB, userID string) (*dto.SubscriptionStatus, error)
}

type SubscriptionServiceImpl struct {
	subscriptionRepo repositories.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository) SubscriptionService {
	return &SubscriptionServiceImpl{subscriptionRepo: subscriptionRepo}
}

func (s *SubscriptionServiceImpl) ListPlans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	plans, err := s.subscriptionRepo.FindActivePlans(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plans, nil
}

// GetStatus is the authoritative paywall answer. The row is created on
// first access so a fresh account reads as "never subscribed" rather
// than erroring.
func (s *SubscriptionServiceImpl) GetStatus(db *gorm.DB, userID string) (*dto.SubscriptionStatus, error) {
	sub, err := s.subscriptionRepo.GetOrCreateByUserID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	status := subscriptionStatus(sub, time.Now())
	return &status, nil
}

// StartTrial consumes the one-time trial against the FREE plan.
func (s *SubscriptionServiceImpl) StartTrial(db *gorm.DB, userID string) (*dto.SubscriptionStatus, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	sub, err := s.subscriptionRepo.GetOrCreateByUserID(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if sub.TrialUsed {
		return nil, apperrors.ErrTrialAlreadyUsed
	}

	freePlan, err := s.subscriptionRepo.FindFreePlan(tx)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrTrialUnavailable
		}
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if !sub.StartTrial(freePlan, now) {
		return nil, apperrors.ErrTrialUnavailable
	}
	if err := s.subscriptionRepo.UpdateSubscription(tx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	status := subscriptionStatus(sub, now)
	return &status, nil
}

func subscriptionStatus(sub *models.UserSubscription, now time.Time) dto.SubscriptionStatus {
	return dto.SubscriptionStatus{
		IsValid: sub.IsValidAt(now),
		Subscription: dto.SubscriptionDetail{
			PlanType:       sub.PlanTypeName(),
			IsTrial:        sub.IsTrialActiveAt(now),
			DaysRemaining:  sub.DaysRemainingAt(now),
			TrialUsed:      sub.TrialUsed,
			AllowedByAdmin: sub.AllowedByAdmin,
			TrialEndDate:   sub.TrialEndDate,
			EndDate:        sub.EndDate,
			GracePeriodEnd: sub.GracePeriodEnd,
		},
	}
}
