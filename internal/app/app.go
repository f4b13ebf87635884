package app

import (
	"context"
	"fmt"

	"dukaan_backend/database"
	"dukaan_backend/internal/config"
	"dukaan_backend/internal/email"
	"dukaan_backend/internal/gateway"
	"dukaan_backend/internal/handlers"
	"dukaan_backend/internal/logger"
	"dukaan_backend/internal/middleware"
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/routes"
	"dukaan_backend/internal/services"
	"dukaan_backend/internal/validator"
	"dukaan_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedDefaultPlans(gormDB); err != nil {
		logger.Fatal("Failed to seed subscription plans", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	worker := workers.NewSubscriptionWorker(
		gormDB,
		repositories.NewSubscriptionRepository(),
		repositories.NewRefreshTokenRepository(),
	)
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)

	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers, repositories.NewSubscriptionRepository())

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	emailProvider := email.NewProvider(cfg.Email)
	paymentGateway := gateway.NewRazorpayGateway(cfg.Razorpay)

	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	shopRepo := repositories.NewShopRepository()
	productRepo := repositories.NewProductRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	reportRepo := repositories.NewReportRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()

	authService := services.NewAuthService(userRepo, shopRepo, refreshTokenRepo, subscriptionRepo, emailProvider)
	shopService := services.NewShopService(shopRepo)
	productService := services.NewProductService(productRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, productRepo, shopRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo)
	paymentService := services.NewPaymentService(subscriptionRepo, userRepo, paymentGateway)
	reportService := services.NewReportService(reportRepo, productRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ShopService:         shopService,
		ProductService:      productService,
		InvoiceService:      invoiceService,
		SubscriptionService: subscriptionService,
		PaymentService:      paymentService,
		ReportService:       reportService,
		EmailService:        emailProvider,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		ShopHandler:         handlers.NewShopHandler(baseHandler, services.ShopService),
		ProductHandler:      handlers.NewProductHandler(baseHandler, services.ProductService, services.ReportService),
		InvoiceHandler:      handlers.NewInvoiceHandler(baseHandler, services.InvoiceService, services.ReportService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, services.SubscriptionService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, services.PaymentService),
		ReportHandler:       handlers.NewReportHandler(baseHandler, services.ReportService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedDefaultPlans inserts the plan catalog on first boot. Existing
// plans are left untouched so price edits made in production survive
// restarts.
func seedDefaultPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.SubscriptionPlan{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count subscription plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("No subscription plans found. Seeding defaults...")

	plans := []models.SubscriptionPlan{
		{
			Name:         "Free Trial",
			PlanType:     models.PlanTypeFree,
			Duration:     models.PlanDurationMonthly,
			Price:        0,
			DurationDays: 14,
			Features:     []byte(`{"dashboard": true, "reports": true, "max_bills_per_week": 100}`),
			IsActive:     true,
		},
		{
			Name:         "Basic Monthly",
			PlanType:     models.PlanTypeBasic,
			Duration:     models.PlanDurationMonthly,
			Price:        299,
			DurationDays: 30,
			Features:     []byte(`{"dashboard": true, "reports": false}`),
			IsActive:     true,
		},
		{
			Name:         "Pro Monthly",
			PlanType:     models.PlanTypePro,
			Duration:     models.PlanDurationMonthly,
			Price:        599,
			DurationDays: 30,
			Features:     []byte(`{"dashboard": true, "reports": true}`),
			IsActive:     true,
		},
		{
			Name:         "Pro Yearly",
			PlanType:     models.PlanTypePro,
			Duration:     models.PlanDurationYearly,
			Price:        5999,
			DurationDays: 365,
			Features:     []byte(`{"dashboard": true, "reports": true}`),
			IsActive:     true,
		},
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	for i := range plans {
		if err := tx.Create(&plans[i]).Error; err != nil {
			return fmt.Errorf("failed to create plan %q: %w", plans[i].Name, err)
		}
	}

	logger.Info("Default subscription plans created", "count", len(plans))
	return tx.Commit().Error
}
