package services

import (
	"context"
	"encoding/json"
	"time"

	"dukaan_backend/internal/gateway"
	"dukaan_backend/internal/logger"
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.SubscriptionStatus, error)
	HandleWebhook(db *gorm.DB, body []byte, signature string) error
	History(db *gorm.DB, userID string, page, pageSize int) ([]models.Payment, int64, error)
}

type PaymentServiceImpl struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	gw               gateway.Gateway
}

func NewPaymentService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	gw gateway.Gateway,
) PaymentService {
	return &PaymentServiceImpl{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gw:               gw,
	}
}

// CreateOrder registers a gateway order for a paid plan and records a
// CREATED payment row keyed by the gateway order id.
func (s *PaymentServiceImpl) CreateOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	plan, err := s.subscriptionRepo.FindPlanByID(db, req.PlanID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if plan.PlanType == models.PlanTypeFree || plan.Price <= 0 {
		return nil, apperrors.ErrInvalidOperation("payment", "Free plans are not purchasable")
	}

	amountPaise := int64(plan.Price * 100)
	receipt := "rcpt_" + uuid.NewString()

	order, err := s.gw.CreateOrder(ctx, amountPaise, "INR", receipt, map[string]string{
		"user_id": userID,
		"plan_id": plan.ID,
	})
	if err != nil {
		logger.WithError(err).Error("gateway order create failed", "user_id", userID, "plan_id", plan.ID)
		return nil, apperrors.ErrPaymentGateway
	}

	payment := &models.Payment{
		UserID:   userID,
		PlanID:   &plan.ID,
		OrderID:  order.ID,
		Amount:   plan.Price,
		Currency: "INR",
		Status:   models.PaymentStatusCreated,
	}
	if err := s.subscriptionRepo.CreatePayment(db, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CreateOrderResponse{
		OrderID:   order.ID,
		Amount:    amountPaise,
		Currency:  "INR",
		Key:       s.gw.KeyID(),
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Price:     plan.Price,
		UserName:  user.Name,
		UserEmail: user.Email,
	}, nil
}

// VerifyPayment checks the checkout signature and, when valid,
// activates the purchased plan. A bad signature marks the payment
// FAILED and never touches the subscription.
func (s *PaymentServiceImpl) VerifyPayment(db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.SubscriptionStatus, error) {
	payment, err := s.subscriptionRepo.FindPaymentByOrderID(db, req.RazorpayOrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if payment.UserID != userID {
		return nil, apperrors.ErrPaymentNotFound
	}

	if !s.gw.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		payment.Status = models.PaymentStatusFailed
		payment.PaymentID = req.RazorpayPaymentID
		payment.Notes = "signature verification failed"
		if uerr := s.subscriptionRepo.UpdatePayment(db, payment); uerr != nil {
			logger.WithError(uerr).Error("failed to mark payment failed", "order_id", payment.OrderID)
		}
		return nil, apperrors.ErrInvalidPaymentSignature
	}

	status, err := s.settlePayment(db, payment, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return nil, err
	}
	return status, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook settles payments the client never verified, e.g. when
// the buyer closed the tab after paying. Signature covers the raw body.
func (s *PaymentServiceImpl) HandleWebhook(db *gorm.DB, body []byte, signature string) error {
	if !s.gw.VerifyWebhookSignature(body, signature) {
		return apperrors.ErrInvalidPaymentSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.NewBadRequestError("Malformed webhook payload")
	}
	if event.Event != "payment.captured" {
		// Other events are acknowledged and ignored.
		return nil
	}

	entity := event.Payload.Payment.Entity
	payment, err := s.subscriptionRepo.FindPaymentByOrderID(db, entity.OrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotFound) {
			return apperrors.ErrPaymentNotFound
		}
		return apperrors.InternalError(err)
	}

	if payment.Status == models.PaymentStatusSuccess {
		// Already settled via client verification.
		return nil
	}

	_, err = s.settlePayment(db, payment, entity.ID, "")
	return err
}

func (s *PaymentServiceImpl) History(db *gorm.DB, userID string, page, pageSize int) ([]models.Payment, int64, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	payments, total, err := s.subscriptionRepo.FindPaymentsByUser(db, userID, pageSize, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return payments, total, nil
}

// settlePayment marks the payment SUCCESS and activates its plan in
// one transaction.
func (s *PaymentServiceImpl) settlePayment(db *gorm.DB, payment *models.Payment, paymentID, signature string) (*dto.SubscriptionStatus, error) {
	if payment.PlanID == nil {
		return nil, apperrors.InternalError(nil)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	plan, err := s.subscriptionRepo.FindPlanByID(tx, *payment.PlanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payment.PaymentID = paymentID
	payment.Signature = signature
	payment.Status = models.PaymentStatusSuccess
	if err := s.subscriptionRepo.UpdatePayment(tx, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	sub, err := s.subscriptionRepo.GetOrCreateByUserID(tx, payment.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	sub.ActivatePlan(plan, now)
	if err := s.subscriptionRepo.UpdateSubscription(tx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("payment settled",
		"order_id", payment.OrderID,
		"user_id", payment.UserID,
		"plan", plan.Name,
	)

	status := subscriptionStatus(sub, now)
	return &status, nil
}
