package routes

import (
	"dukaan_backend/internal/handlers"
	"dukaan_backend/internal/middleware"
	"dukaan_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP routes. Three rings:
//
//	public      - token, register, refresh, webhook
//	authed      - subscription status, plans, payments, /me
//	paywalled   - everything that sells things: catalog, billing, reports
//
// Payment and plan routes sit outside the paywall so an expired user
// can still pay.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, subscriptionRepo repositories.SubscriptionRepository) {
	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterWebhook(api)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		appHandlers.SubscriptionHandler.RegisterRoutes(authed)
		appHandlers.PaymentHandler.RegisterRoutes(authed)
	}

	paywalled := authed.Group("")
	paywalled.Use(middleware.SubscriptionMiddleware(subscriptionRepo))
	{
		appHandlers.ShopHandler.RegisterRoutes(paywalled)
		appHandlers.ProductHandler.RegisterRoutes(paywalled)
		appHandlers.InvoiceHandler.RegisterRoutes(paywalled)
		appHandlers.ReportHandler.RegisterRoutes(paywalled)
	}
}
