package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinova/pos-api/internal/application/service"
	"github.com/clinova/pos-api/internal/application/session"
	"github.com/clinova/pos-api/internal/config"
	"github.com/clinova/pos-api/internal/infrastructure/cache"
	"github.com/clinova/pos-api/internal/infrastructure/database"
	"github.com/clinova/pos-api/internal/infrastructure/repository"
	"github.com/clinova/pos-api/internal/presentation/http/handler"
	"github.com/clinova/pos-api/internal/presentation/http/routes"
	"github.com/clinova/pos-api/pkg/oauth"
	"github.com/clinova/pos-api/pkg/printer"
	"github.com/clinova/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	clinicRepo := repository.NewClinicRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	templateRepo := repository.NewBlendTemplateRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	itemRepo := repository.NewTransactionItemRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Benefits cache: redis when configured, otherwise a no-op
	var benefitsCache cache.BenefitsCache = cache.NoopBenefitsCache{}
	if cfg.Redis.Addr != "" {
		benefitsCache = cache.NewRedisBenefitsCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, googleOAuthService)
	clinicService := service.NewClinicService(clinicRepo)
	productService := service.NewProductService(productRepo, categoryRepo, unitRepo)
	catalogService := service.NewCatalogService(categoryRepo, unitRepo)
	customerService := service.NewCustomerService(customerRepo, benefitsCache, cfg.Redis.TTL)
	blendService := service.NewBlendService(templateRepo, productRepo)
	bundleService := service.NewBundleService(bundleRepo, productRepo)
	transactionService := service.NewTransactionService(transactionRepo, itemRepo, productRepo, customerRepo, draftRepo)
	draftService := service.NewDraftService(draftRepo, cfg.Register.DraftTTL)
	userService := service.NewUserService(userRepo, roleRepo)

	// Register session engine
	sessionManager := session.NewManager(session.Deps{
		Benefits: customerService,
		Products: productService,
		Drafts:   draftService,
		Submit:   transactionService,
	}, cfg.Register.SettleDelay)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, transactionRepo, clinicRepo, cfg.Printer.Type)

	// Expired drafts are swept in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := draftService.CleanupExpired(context.Background()); err != nil {
				log.Printf("Warning: Draft cleanup failed: %v", err)
			}
		}
	}()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.OAuth),
		Clinic:      handler.NewClinicHandler(clinicService),
		Product:     handler.NewProductHandler(productService),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Customer:    handler.NewCustomerHandler(customerService),
		Blend:       handler.NewBlendHandler(blendService, productService),
		Bundle:      handler.NewBundleHandler(bundleService),
		Transaction: handler.NewTransactionHandler(transactionService, productService, blendService, bundleService, customerService),
		Register:    handler.NewRegisterHandler(sessionManager, draftService, blendService, bundleService),
		Draft:       handler.NewDraftHandler(draftService),
		User:        handler.NewUserHandler(userService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		ClinicRepo:      clinicRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
