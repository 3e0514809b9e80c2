package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinova/pos-api/internal/config"
	domainRepo "github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/internal/presentation/http/handler"
	"github.com/clinova/pos-api/internal/presentation/http/middleware"
	"github.com/clinova/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Clinic      *handler.ClinicHandler
	Product     *handler.ProductHandler
	Catalog     *handler.CatalogHandler
	Customer    *handler.CustomerHandler
	Blend       *handler.BlendHandler
	Bundle      *handler.BundleHandler
	Transaction *handler.TransactionHandler
	Register    *handler.RegisterHandler
	Draft       *handler.DraftHandler
	User        *handler.UserHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	ClinicRepo      domainRepo.ClinicRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.ClinicMiddleware(deps.ClinicRepo))

		// Per-clinic rate limiter
		rateLimiter := middleware.NewClinicRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Clinics
	registerClinicRoutes(protected, h)

	// Products
	registerProductRoutes(protected, h)

	// Categories and units
	registerCatalogRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Blend templates and quoting
	registerBlendRoutes(protected, h)

	// Bundles
	registerBundleRoutes(protected, h)

	// Transactions
	registerTransactionRoutes(protected, h, deps)

	// Register sessions
	registerSessionRoutes(protected, h, deps)

	// Drafts
	registerDraftRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Roles (Admin)
	registerRoleRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerClinicRoutes(protected *gin.RouterGroup, h *Handlers) {
	clinics := protected.Group("/clinics")
	{
		clinics.GET("", h.Clinic.ListMine)
		clinics.POST("", h.Clinic.Create)
		clinics.GET("/current", h.Clinic.Current)
		clinics.PUT("/current", h.Clinic.Update)
		clinics.GET("/current/members", h.Clinic.Members)
		clinics.POST("/current/members", h.Clinic.InviteMember)
		clinics.DELETE("/current/members/:userId", h.Clinic.RemoveMember)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequireClinic())
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.POST("/preview-sale", h.Product.PreviewSale)
		products.GET("/:slug", h.Product.Get)

		manage := products.Group("")
		manage.Use(middleware.RequirePermission("manage-products"))
		{
			manage.POST("", h.Product.Create)
			manage.PUT("/:slug", h.Product.Update)
			manage.DELETE("/:slug", h.Product.Delete)
		}
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	categories.Use(middleware.RequireClinic())
	{
		categories.GET("", h.Catalog.ListCategories)

		manage := categories.Group("")
		manage.Use(middleware.RequirePermission("manage-categories"))
		{
			manage.POST("", h.Catalog.CreateCategory)
			manage.PUT("/:slug", h.Catalog.UpdateCategory)
			manage.DELETE("/:slug", h.Catalog.DeleteCategory)
		}
	}

	units := protected.Group("/units")
	units.Use(middleware.RequireClinic())
	{
		units.GET("", h.Catalog.ListUnits)

		manage := units.Group("")
		manage.Use(middleware.RequirePermission("manage-units"))
		{
			manage.POST("", h.Catalog.CreateUnit)
			manage.PUT("/:slug", h.Catalog.UpdateUnit)
			manage.DELETE("/:slug", h.Catalog.DeleteUnit)
		}
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequireClinic())
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/:id/benefits", h.Customer.GetBenefits)

		manage := customers.Group("")
		manage.Use(middleware.RequirePermission("manage-customers"))
		{
			manage.POST("", h.Customer.Create)
			manage.PUT("/:id", h.Customer.Update)
			manage.DELETE("/:id", h.Customer.Delete)
		}
	}
}

func registerBlendRoutes(protected *gin.RouterGroup, h *Handlers) {
	blends := protected.Group("/blends")
	blends.Use(middleware.RequireClinic())
	{
		blends.POST("/quote", h.Blend.Quote)
		blends.POST("/validate", h.Blend.Validate)

		templates := blends.Group("/templates")
		{
			templates.GET("", h.Blend.ListTemplates)
			templates.GET("/:slug", h.Blend.GetTemplate)

			manage := templates.Group("")
			manage.Use(middleware.RequirePermission("manage-blends"))
			{
				manage.POST("", h.Blend.CreateTemplate)
				manage.PUT("/:slug", h.Blend.UpdateTemplate)
				manage.DELETE("/:slug", h.Blend.DeleteTemplate)
			}
		}
	}
}

func registerBundleRoutes(protected *gin.RouterGroup, h *Handlers) {
	bundles := protected.Group("/bundles")
	bundles.Use(middleware.RequireClinic())
	{
		bundles.GET("", h.Bundle.List)
		bundles.GET("/:id", h.Bundle.Get)
		bundles.GET("/:id/availability", h.Bundle.CheckAvailability)

		manage := bundles.Group("")
		manage.Use(middleware.RequirePermission("manage-bundles"))
		{
			manage.POST("", h.Bundle.Create)
			manage.PUT("/:id", h.Bundle.Update)
			manage.DELETE("/:id", h.Bundle.Delete)
		}
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := protected.Group("/transactions")
	transactions.Use(middleware.RequireClinic())
	transactions.Use(middleware.RequirePermission("manage-transactions"))
	{
		transactions.GET("", h.Transaction.List)
		// Direct creation uses idempotency middleware to prevent duplicates
		transactions.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Register.IdempotencyTTL,
		}), h.Transaction.Create)
		transactions.GET("/unpaid", h.Transaction.GetUnpaid)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.POST("/:id/cancel", h.Transaction.Cancel)
		transactions.POST("/:id/pay", h.Transaction.PayDue)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := protected.Group("/register/sessions")
	sessions.Use(middleware.RequireClinic())
	sessions.Use(middleware.RequirePermission("manage-transactions"))
	{
		sessions.POST("", h.Register.Open)
		sessions.GET("/:id", h.Register.GetState)
		sessions.POST("/:id/items/product", h.Register.AddProduct)
		sessions.POST("/:id/items/template", h.Register.AddTemplate)
		sessions.POST("/:id/items/blend", h.Register.AddBlend)
		sessions.POST("/:id/items/bundle", h.Register.AddBundle)
		sessions.POST("/:id/items/misc", h.Register.AddMisc)
		sessions.PUT("/:id/items/:itemId/quantity", h.Register.UpdateQuantity)
		sessions.DELETE("/:id/items/:itemId", h.Register.RemoveItem)
		sessions.PUT("/:id/customer", h.Register.SetCustomer)
		sessions.POST("/:id/benefits/refresh", h.Register.RefreshBenefits)
		sessions.PUT("/:id/discount", h.Register.SetDiscount)
		sessions.POST("/:id/discount/toggle", h.Register.ToggleDiscountMode)
		sessions.PUT("/:id/payment", h.Register.SetPayment)
		sessions.POST("/:id/draft", h.Register.SaveDraft)
		// Submission uses idempotency middleware so a retried request
		// returns the original transaction rather than a duplicate
		sessions.POST("/:id/submit", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Register.IdempotencyTTL,
		}), h.Register.Submit)
		sessions.DELETE("/:id", h.Register.Close)
	}
}

func registerDraftRoutes(protected *gin.RouterGroup, h *Handlers) {
	drafts := protected.Group("/drafts")
	drafts.Use(middleware.RequireClinic())
	drafts.Use(middleware.RequirePermission("manage-drafts"))
	{
		drafts.GET("", h.Draft.List)
		drafts.GET("/:id", h.Draft.Get)
		drafts.DELETE("/:id", h.Draft.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequireClinic())
	{
		printerGroup.GET("/status", h.Printer.Status)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
