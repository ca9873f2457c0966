package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"engrave-backend/internal/auth"
	"engrave-backend/internal/cache"
	"engrave-backend/internal/config"
	"engrave-backend/internal/database"
	"engrave-backend/internal/db"
	"engrave-backend/internal/email"
	"engrave-backend/internal/handlers"
	"engrave-backend/internal/health"
	h "engrave-backend/internal/http"
	"engrave-backend/internal/middleware"
	"engrave-backend/internal/repositories"
	"engrave-backend/internal/services"
	"engrave-backend/internal/square"
	"engrave-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; cache calls degrade to no-ops without it
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else if cfg.Redis.Addr != "" {
		log.Println("[Redis] Cache connected successfully")
	}

	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHours)

	// Repositories
	customerRepo := repositories.NewCustomerRepository(pool)
	quoteRepo := repositories.NewQuoteRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	receiptRepo := repositories.NewReceiptRepository(pool)
	siteConfigRepo := repositories.NewSiteConfigRepository(pool)

	// Outbound providers
	squareClient := square.NewClient(cfg.Square.AccessToken)
	if !squareClient.Configured() {
		log.Println("WARNING: SQUARE_ACCESS_TOKEN not set, payment links and invoices are disabled")
	}
	emailSender := email.NewResendService(cfg.Resend.APIKey, cfg.Resend.FromEmail)
	if !emailSender.Configured() {
		log.Println("WARNING: RESEND_API_KEY not set, emails will be skipped")
	}

	archiver, err := storage.NewR2Archiver(context.Background(), storage.R2Config{
		AccessKey: cfg.R2.AccessKey,
		SecretKey: cfg.R2.SecretKey,
		Endpoint:  cfg.R2.Endpoint,
		Region:    cfg.R2.Region,
		Bucket:    cfg.R2.Bucket,
	})
	if err != nil {
		log.Printf("[R2] Archiver unavailable: %v", err)
	}

	// Services
	intakeService := services.NewIntakeService(quoteRepo, customerRepo, squareClient)
	quoteService := services.NewQuoteService(quoteRepo, emailSender, cfg.Server.PortalBaseURL)
	lifecycleService := services.NewLifecycleService(quoteRepo, orderRepo, customerRepo, squareClient, emailSender)
	reconcileService := services.NewReconcileService(quoteRepo, orderRepo, paymentRepo, receiptRepo,
		customerRepo, emailSender, cfg.Admin.Email)
	customerService := services.NewCustomerService(customerRepo)
	siteConfigService := services.NewSiteConfigService(siteConfigRepo)
	receiptService := services.NewReceiptService(receiptRepo, archiver, siteConfigService)

	// Handlers
	quoteHandler := handlers.NewQuoteHandler(intakeService, quoteService, lifecycleService)
	webhookHandler := handlers.NewWebhookHandler(reconcileService,
		cfg.Square.WebhookSignatureKey, cfg.Square.WebhookURL, cfg.IsProduction())
	customerHandler := handlers.NewCustomerHandler(customerService)
	configHandler := handlers.NewConfigHandler(siteConfigService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	authHandler := handlers.NewAuthHandler(jwtManager, cfg.Admin.Username, cfg.Admin.PasswordHash)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	opsHandler := handlers.NewOpsHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, cfg.JWT.Secret)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(quoteHandler, webhookHandler, customerHandler, configHandler,
		receiptHandler, authHandler, healthHandler, opsHandler, authMiddleware)

	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.MetricsMiddleware(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s (%s)", addr, cfg.Server.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
