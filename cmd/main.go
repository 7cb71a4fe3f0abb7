package main

import (
	"context"

	"pos-service/internal/handler"
	"pos-service/internal/middleware"
	"pos-service/internal/payment"
	"pos-service/internal/push"
	"pos-service/internal/service"
	"pos-service/pkg/config"
	"pos-service/pkg/database"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting POS service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Payment providers degrade to ErrNotConfigured when credentials are absent
	payfast := payment.NewPayFast(&cfg.PayFast, log)
	stripe := payment.NewStripe(&cfg.Stripe, log)

	// Push provider; nil-safe, notification delivery is best-effort
	messenger := push.NewMessenger(context.Background(), &cfg.Firebase, log)

	notifications := service.NewNotificationService(db, messenger, log)
	services := handler.Services{
		Auth:          service.NewAuthService(db, log),
		StoreAccess:   service.NewStoreAccessService(db, log),
		Stores:        service.NewStoreService(db, log),
		Products:      service.NewProductService(db, log),
		Notifications: notifications,
		Sales:         service.NewSaleService(db, notifications, log),
		PayFast:       payfast,
		Stripe:        stripe,
	}
	handler.Initialize(services)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.Refresh)

	// Provider callbacks are authenticated by signature, not by bearer token
	payments := e.Group("/payments")
	payments.POST("/stripe/webhook", handler.StripeWebhook)
	payments.POST("/payfast/notify", handler.PayFastNotify)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Session and store selection - no tenant context required yet
	session := api.Group("/auth")
	session.POST("/switch-store", handler.SwitchStore)
	session.GET("/stores", handler.GetUserStores)
	session.GET("/profile", handler.GetProfile)

	// Tenant-scoped operations
	scoped := api.Group("")
	scoped.Use(middleware.TenantContextMiddleware)

	scoped.POST("/payments/stripe/create-intent", handler.CreateStripeIntent)
	scoped.POST("/payments/stripe/refund", handler.RefundStripePayment)
	scoped.POST("/payments/payfast/generate-url", handler.GeneratePayFastURL)

	scoped.GET("/notifications", handler.GetNotifications)
	scoped.PATCH("/notifications/:id/read", handler.MarkNotificationRead)
	scoped.POST("/notifications/mark-all-read", handler.MarkAllNotificationsRead)
	scoped.POST("/notifications/register-token", handler.RegisterFCMToken)

	scoped.POST("/stores", handler.CreateStore)
	scoped.GET("/stores", handler.ListStores)
	scoped.POST("/stores/assign", handler.AssignStore)

	scoped.POST("/products", handler.CreateProduct)
	scoped.GET("/products", handler.ListProducts)
	scoped.GET("/products/low-stock", handler.ListLowStockProducts)
	scoped.GET("/products/:id", handler.GetProduct)
	scoped.PATCH("/products/:id", handler.UpdateProduct)
	scoped.DELETE("/products/:id", handler.DeleteProduct)

	scoped.POST("/sales", handler.CreateSale)
	scoped.GET("/sales", handler.ListSales)
	scoped.GET("/sales/:id", handler.GetSale)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
