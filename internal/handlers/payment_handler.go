package handlers

import (
	"io"
	"net/http"

	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

// RegisterRoutes goes on the authenticated group WITHOUT the paywall,
// otherwise an expired user could never pay their way back in.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("/create-order/", h.CreateOrder)
		payments.POST("/verify-payment/", h.Verify)
		payments.GET("/history/", h.History)
	}
}

// RegisterWebhook goes on the public group: the gateway authenticates
// itself with the body signature, not a bearer token.
func (h *PaymentHandler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook/", h.Webhook)
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreateOrder(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	status, err := h.paymentService.VerifyPayment(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Detail: "Payment verified.",
		Status: *status,
	})
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	payments, total, err := h.paymentService.History(h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Results:  payments,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read webhook body"))
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := h.paymentService.HandleWebhook(h.GetDB(c), body, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
