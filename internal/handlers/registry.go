package handlers

// AppHandlers holds all HTTP handlers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ShopHandler         *ShopHandler
	ProductHandler      *ProductHandler
	InvoiceHandler      *InvoiceHandler
	SubscriptionHandler *SubscriptionHandler
	PaymentHandler      *PaymentHandler
	ReportHandler       *ReportHandler
}
