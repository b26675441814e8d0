// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"strconv"

	"thrift/internal/config"
	"thrift/internal/handlers"
	"thrift/internal/middleware"
	"thrift/internal/models"
	"thrift/internal/repositories"
	"thrift/internal/services/analytics"
	"thrift/internal/services/auth"
	"thrift/internal/services/fee"
	"thrift/internal/services/feepolicy"
	"thrift/internal/services/group"
	"thrift/internal/services/ledger"
	"thrift/internal/services/notification"
	"thrift/internal/services/payment"
	"thrift/internal/services/refund"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	groupRepo := repositories.NewGroupRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	policyRepo := repositories.NewFeePolicyRepository(db, repositories.CacheService)
	entryRepo := repositories.NewFeeEntryRepository(db)
	refundRepo := repositories.NewRefundRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)

	// Initialize auth service and handler
	authService := auth.NewService(userRepo)
	authHandler := handlers.NewAuthHandler(authService)

	// Initialize services in correct order
	notifier := notification.NewService()
	policyService := feepolicy.NewService(policyRepo)
	feeService := fee.NewService(policyService, paymentRepo, groupRepo, promotionRepo, userRepo)
	ledgerService := ledger.NewService(entryRepo, notifier)

	var gateway refund.Gateway = refund.NoopGateway{}
	if key := config.GetEnv("STRIPE_SECRET_KEY", ""); key != "" {
		gateway = refund.NewStripeGateway(key)
	}
	refundService := refund.NewService(entryRepo, refundRepo, paymentRepo, gateway, notifier)

	analyticsService := analytics.NewService(entryRepo)
	reporter := analytics.NewReporter(entryRepo, analyticsService)
	paymentService := payment.NewService(paymentRepo, groupRepo, feeService, ledgerService, notifier)

	smtpPort, _ := strconv.Atoi(config.GetEnv("SMTP_PORT", "587"))
	mailer := notification.NewSMTPMailer(
		config.GetEnv("SMTP_HOST", "localhost"),
		smtpPort,
		config.GetEnv("SMTP_USERNAME", ""),
		config.GetEnv("SMTP_PASSWORD", ""),
		config.GetEnv("SMTP_FROM", "reports@thrift.local"),
	)

	groupService := group.NewService(groupRepo)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	groupHandler := handlers.NewGroupHandler(groupService)
	adminFeeHandler := handlers.NewAdminFeeHandler(policyService, refundService)
	reportHandler := handlers.NewReportHandler(analyticsService, reporter, mailer)

	// Public routes
	api := app.Group("/api")

	api.Get("/health", handlers.HealthCheck)
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/auth/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Also add a root welcome route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Thrift API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Create middleware instance
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Protected routes with auth middleware
	protected := api.Use(authMiddleware.Handler)

	setupMemberRoutes(protected, paymentHandler, groupHandler, authHandler)
	setupAdminRoutes(app, authMiddleware, adminFeeHandler, reportHandler, paymentHandler)
}

func setupMemberRoutes(router fiber.Router, paymentHandler *handlers.PaymentHandler, groupHandler *handlers.GroupHandler, authHandler *handlers.AuthHandler) {
	router.Post("/change-password", authHandler.ChangePassword)
	router.Post("/logout", authHandler.LogoutUser)

	// Contribution payment routes
	payments := router.Group("/payments")
	payments.Post("/", middleware.HasPermission(models.PermissionPaymentWrite), paymentHandler.RecordPayment)
	payments.Get("/", middleware.HasPermission(models.PermissionPaymentRead), paymentHandler.ListPayments)
	payments.Get("/:id", middleware.HasPermission(models.PermissionPaymentRead), paymentHandler.GetPayment)
	payments.Post("/:id/fee", middleware.HasPermission(models.PermissionPaymentWrite), paymentHandler.ChargeFee)

	// Savings group routes; creation and listing are coordinator-only.
	groups := router.Group("/groups", middleware.Protected())
	groups.Post("/", groupHandler.CreateGroup)
	groups.Get("/", groupHandler.ListGroups)
	groups.Get("/:id", groupHandler.GetGroup)

	// Invite lookup stays open to members joining a group.
	router.Get("/invites/:code", middleware.HasPermission(models.PermissionGroupRead), groupHandler.GetGroupByInviteCode)
}

func setupAdminRoutes(
	app *fiber.App,
	authMiddleware *middleware.AuthMiddleware,
	adminFeeHandler *handlers.AdminFeeHandler,
	reportHandler *handlers.ReportHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	// Fee configuration
	fees := admin.Group("/fees")
	fees.Post("/config", middleware.HasPermission(models.PermissionFeeConfigWrite), adminFeeHandler.UpdateFeeConfig)
	fees.Put("/config", middleware.HasPermission(models.PermissionFeeConfigWrite), adminFeeHandler.UpdateFeeConfig)
	fees.Get("/config", middleware.HasPermission(models.PermissionReadAdmin), adminFeeHandler.GetFeeConfig)
	fees.Get("/config/history", middleware.HasPermission(models.PermissionReadAdmin), adminFeeHandler.GetFeeConfigHistory)

	// Refunds and adjustments
	fees.Post("/bulk-refund", middleware.HasPermission(models.PermissionFeeRefund), adminFeeHandler.BulkRefund)
	fees.Get("/refund-candidates", middleware.HasPermission(models.PermissionFeeRefund), adminFeeHandler.RefundCandidates)
	fees.Post("/:id/refund", middleware.HasPermission(models.PermissionFeeRefund), adminFeeHandler.RefundFee)
	fees.Post("/:id/adjust", middleware.HasPermission(models.PermissionFeeRefund), adminFeeHandler.AdjustFee)

	// Reporting and analytics
	fees.Get("/report", middleware.HasPermission(models.PermissionFeeReport), reportHandler.GenerateReport)
	fees.Get("/summary/:year/:month", middleware.HasPermission(models.PermissionFeeReport), reportHandler.MonthlySummary)
	fees.Post("/custom", middleware.HasPermission(models.PermissionFeeReport), reportHandler.CustomReport)
	fees.Get("/statistics", middleware.HasPermission(models.PermissionFeeReport), reportHandler.Statistics)

	analyticsGroup := fees.Group("/analytics", middleware.HasPermission(models.PermissionFeeReport))
	analyticsGroup.Get("/users", reportHandler.TopUsers)
	analyticsGroup.Get("/groups", reportHandler.TopGroups)
	analyticsGroup.Get("/trends", reportHandler.Trends)
	analyticsGroup.Get("/projection", reportHandler.Projection)

	// Operational endpoints
	admin.Get("/payments/:id", paymentHandler.GetPayment)
	admin.Get("/cache-stats", handlers.CacheStats)
}
