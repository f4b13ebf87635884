package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	BaseModel
	Name         string       `gorm:"not null" json:"name"`
	PlanType     PlanType     `gorm:"type:varchar(20);not null;default:'FREE';index:idx_plan_type_duration,unique" json:"plan_type"`
	Duration     PlanDuration `gorm:"type:varchar(20);not null;default:'MONTHLY';index:idx_plan_type_duration,unique" json:"duration"`
	Price        float64      `gorm:"not null;default:0" json:"price"`
	DurationDays int          `gorm:"not null;default:30" json:"duration_days"`

	// Feature matrix, e.g. {"dashboard": true, "reports": false,
	// "max_bills_per_week": 100}
	Features datatypes.JSON `gorm:"type:jsonb" json:"features"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

type UserSubscription struct {
	BaseModel
	UserID string  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID *string `gorm:"type:uuid" json:"plan"`

	// Trial management
	TrialUsed      bool       `gorm:"default:false" json:"trial_used"`
	TrialStartDate *time.Time `json:"trial_start_date"`
	TrialEndDate   *time.Time `json:"trial_end_date"`

	// Paid subscription dates
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Active         bool `gorm:"default:false" json:"active"`
	AllowedByAdmin bool `gorm:"default:false" json:"allowed_by_admin"`

	GracePeriodEnd *time.Time `json:"grace_period_end"`

	// Relations
	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan_details,omitempty"`
}

// StartTrial activates the free trial for the duration of the FREE plan.
// Returns false when the trial was already consumed.
func (s *UserSubscription) StartTrial(freePlan *SubscriptionPlan, now time.Time) bool {
	if s.TrialUsed || freePlan == nil {
		return false
	}
	end := now.Add(time.Duration(freePlan.DurationDays) * 24 * time.Hour)
	s.PlanID = &freePlan.ID
	s.Plan = freePlan
	s.TrialUsed = true
	s.TrialStartDate = &now
	s.TrialEndDate = &end
	s.Active = true
	return true
}

// ActivatePlan switches the subscription to a paid plan. Trial dates are
// cleared so a paid plan is never reported as a trial; TrialUsed stays
// set as a historical record.
func (s *UserSubscription) ActivatePlan(plan *SubscriptionPlan, now time.Time) {
	end := now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
	s.PlanID = &plan.ID
	s.Plan = plan
	s.Active = true
	s.StartDate = &now
	s.EndDate = &end
	s.GracePeriodEnd = nil
	s.TrialStartDate = nil
	s.TrialEndDate = nil
}

// EnterGracePeriod deactivates the subscription but keeps it valid for
// the given number of days.
func (s *UserSubscription) EnterGracePeriod(now time.Time, graceDays int) {
	end := now.Add(time.Duration(graceDays) * 24 * time.Hour)
	s.GracePeriodEnd = &end
	s.Active = false
}

// IsValidAt reports whether the subscription grants access at the given
// instant. The server value is authoritative; clients never gate on
// locally computed dates.
func (s *UserSubscription) IsValidAt(now time.Time) bool {
	if s.AllowedByAdmin {
		return true
	}

	// Active trial
	if s.Active && s.TrialUsed && s.TrialEndDate != nil && !now.After(*s.TrialEndDate) {
		return true
	}

	// Active paid subscription
	if s.Active && s.EndDate != nil && !now.After(*s.EndDate) && !s.IsTrialActiveAt(now) {
		return true
	}

	// Grace period
	if s.GracePeriodEnd != nil && !now.After(*s.GracePeriodEnd) {
		return true
	}

	return false
}

// IsTrialActiveAt reports whether the free trial is currently running.
// A paid plan is never reported as a trial.
func (s *UserSubscription) IsTrialActiveAt(now time.Time) bool {
	if !s.TrialUsed || !s.Active || s.Plan == nil || s.Plan.PlanType != PlanTypeFree {
		return false
	}
	return s.TrialEndDate != nil && !now.After(*s.TrialEndDate)
}

// DaysRemainingAt returns the whole days left on the trial or paid
// period, never negative.
func (s *UserSubscription) DaysRemainingAt(now time.Time) int {
	var until *time.Time
	if s.IsTrialActiveAt(now) {
		until = s.TrialEndDate
	} else if s.EndDate != nil {
		until = s.EndDate
	}
	if until == nil {
		return 0
	}
	days := int(until.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// PlanTypeName returns the current plan type, "" when no plan is set.
func (s *UserSubscription) PlanTypeName() string {
	if s.Plan != nil {
		return string(s.Plan.PlanType)
	}
	return ""
}

// HasFeature checks the plan feature matrix of a valid subscription.
func (s *UserSubscription) HasFeature(now time.Time, name string) bool {
	if s.AllowedByAdmin {
		return true
	}
	if !s.IsValidAt(now) || s.Plan == nil || len(s.Plan.Features) == 0 {
		return false
	}
	var features map[string]interface{}
	if err := json.Unmarshal(s.Plan.Features, &features); err != nil {
		return false
	}
	enabled, _ := features[name].(bool)
	return enabled
}

type Payment struct {
	BaseModel
	UserID string  `gorm:"type:uuid;not null;index" json:"user"`
	PlanID *string `gorm:"type:uuid" json:"plan"`

	// Gateway details
	OrderID   string `gorm:"not null;uniqueIndex" json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"-"`

	Amount   float64       `gorm:"not null" json:"amount"`
	Currency string        `gorm:"default:'INR'" json:"currency"`
	Status   PaymentStatus `gorm:"type:varchar(20);default:'CREATED'" json:"status"`

	Notes string `json:"notes,omitempty"`

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan_details,omitempty"`
}
