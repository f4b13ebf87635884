package services

import (
	"dukaan_backend/internal/email"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	ShopService         ShopService
	ProductService      ProductService
	InvoiceService      InvoiceService
	SubscriptionService SubscriptionService
	PaymentService      PaymentService
	ReportService       ReportService
	EmailService        email.Provider
}
