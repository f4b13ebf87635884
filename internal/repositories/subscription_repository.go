package repositories

import (
	"errors"
	"time"

	"dukaan_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPaymentNotFound      = errors.New("payment not found")
)

type SubscriptionRepository interface {
	// Plans
	FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error)
	FindPlanByID(db *gorm.DB, id string) (*models.SubscriptionPlan, error)
	FindFreePlan(db *gorm.DB) (*models.SubscriptionPlan, error)
	CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error

	// User subscriptions
	GetOrCreateByUserID(db *gorm.DB, userID string) (*models.UserSubscription, error)
	UpdateSubscription(db *gorm.DB, sub *models.UserSubscription) error
	FindExpiredActive(db *gorm.DB, now time.Time) ([]models.UserSubscription, error)

	// Payments
	CreatePayment(db *gorm.DB, payment *models.Payment) error
	FindPaymentByOrderID(db *gorm.DB, orderID string) (*models.Payment, error)
	UpdatePayment(db *gorm.DB, payment *models.Payment) error
	FindPaymentsByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Payment, int64, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

// Plans

func (r *SubscriptionRepositoryImpl) FindActivePlans(db *gorm.DB) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(db *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindFreePlan(db *gorm.DB) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.Where("plan_type = ? AND is_active = ?", models.PlanTypeFree, true).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error {
	return db.Create(plan).Error
}

// User subscriptions

// GetOrCreateByUserID returns the user's subscription row, creating an
// empty one on first access. Every user has exactly one row.
func (r *SubscriptionRepositoryImpl) GetOrCreateByUserID(db *gorm.DB, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub = models.UserSubscription{UserID: userID}
	if err := db.Create(&sub).Error; err != nil {
		// Lost a race with a concurrent first access.
		var existing models.UserSubscription
		if ferr := db.Preload("Plan").Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) UpdateSubscription(db *gorm.DB, sub *models.UserSubscription) error {
	result := db.Model(sub).Updates(map[string]interface{}{
		"plan_id":          sub.PlanID,
		"trial_used":       sub.TrialUsed,
		"trial_start_date": sub.TrialStartDate,
		"trial_end_date":   sub.TrialEndDate,
		"start_date":       sub.StartDate,
		"end_date":         sub.EndDate,
		"active":           sub.Active,
		"allowed_by_admin": sub.AllowedByAdmin,
		"grace_period_end": sub.GracePeriodEnd,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// FindExpiredActive returns subscriptions still flagged active whose
// trial or paid period has lapsed. The worker moves them into grace.
func (r *SubscriptionRepositoryImpl) FindExpiredActive(db *gorm.DB, now time.Time) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	err := db.Preload("Plan").
		Where("active = ? AND allowed_by_admin = ?", true, false).
		Where("(trial_end_date IS NOT NULL AND trial_end_date < ?) OR (end_date IS NOT NULL AND end_date < ?)", now, now).
		Find(&subs).Error
	return subs, err
}

// Payments

func (r *SubscriptionRepositoryImpl) CreatePayment(db *gorm.DB, payment *models.Payment) error {
	return db.Create(payment).Error
}

func (r *SubscriptionRepositoryImpl) FindPaymentByOrderID(db *gorm.DB, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Preload("Plan").Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *SubscriptionRepositoryImpl) UpdatePayment(db *gorm.DB, payment *models.Payment) error {
	result := db.Model(payment).Updates(map[string]interface{}{
		"payment_id": payment.PaymentID,
		"signature":  payment.Signature,
		"status":     payment.Status,
		"notes":      payment.Notes,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindPaymentsByUser(db *gorm.DB, userID string, limit, offset int) ([]models.Payment, int64, error) {
	query := db.Model(&models.Payment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}

	var payments []models.Payment
	err := query.Preload("Plan").Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error
	return payments, total, err
}
