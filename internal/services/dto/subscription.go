package dto

import "time"

// SubscriptionStatus is the authoritative paywall payload. Clients
// gate on IsValid, never on locally computed dates.
type SubscriptionStatus struct {
	IsValid      bool               `json:"is_valid"`
	Subscription SubscriptionDetail `json:"subscription"`
}

type SubscriptionDetail struct {
	PlanType       string     `json:"plan_type"`
	IsTrial        bool       `json:"is_trial"`
	DaysRemaining  int        `json:"days_remaining"`
	TrialUsed      bool       `json:"trial_used"`
	AllowedByAdmin bool       `json:"allowed_by_admin"`
	TrialEndDate   *time.Time `json:"trial_end_date"`
	EndDate        *time.Time `json:"end_date"`
	GracePeriodEnd *time.Time `json:"grace_period_end"`
}

type StartTrialResponse struct {
	Detail string             `json:"detail"`
	Status SubscriptionStatus `json:"status"`
}

type CreateOrderRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid4"`
}

// CreateOrderResponse carries what the checkout widget needs to open,
// including prefill identity for the hosted form.
type CreateOrderResponse struct {
	OrderID   string  `json:"order_id"`
	Amount    int64   `json:"amount"` // minor units
	Currency  string  `json:"currency"`
	Key       string  `json:"key"`
	PlanID    string  `json:"plan_id"`
	PlanName  string  `json:"plan_name"`
	Price     float64 `json:"price"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type VerifyPaymentResponse struct {
	Detail string             `json:"detail"`
	Status SubscriptionStatus `json:"status"`
}
