// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/config"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/handlers"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/middleware"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/services"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	eventService := services.NewEventService(db)
	authorizationService := services.NewAuthorizationService(db)

	authService := services.NewAuthService(db, cfg)
	walletService := services.NewWalletService(db, cfg, eventService)
	marketplaceService := services.NewMarketplaceService(db, authorizationService, walletService, eventService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	walletHandler := handlers.NewWalletHandler(walletService)
	contentHandler := handlers.NewContentHandler(storageService)
	eventHandler := handlers.NewEventHandler(eventService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), marketplaceHandler.GetProducts)
			products.GET("/last-id", marketplaceHandler.GetLastID)
			products.GET("/:id", middleware.OptionalAuth(), marketplaceHandler.GetProduct)
			products.GET("/:id/owner", marketplaceHandler.GetOwner)
			products.GET("/:id/rating", marketplaceHandler.GetAverageRating)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", marketplaceHandler.ListProduct)
				protected.PUT("/:id", marketplaceHandler.UpdateProduct)
				protected.DELETE("/:id", marketplaceHandler.UnlistProduct)
				protected.POST("/:id/purchase", marketplaceHandler.PurchaseProduct)
				protected.POST("/:id/rate", marketplaceHandler.RateProduct)
			}
		}

		// Wallet routes
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthRequired())
		{
			wallet.GET("", walletHandler.GetBalance)
			wallet.POST("/deposit", walletHandler.CreateDeposit)
			wallet.POST("/deposit/confirm", walletHandler.ConfirmDeposit)
		}

		// Content upload routes
		content := v1.Group("/content")
		content.Use(middleware.AuthRequired())
		{
			content.POST("", middleware.UploadRateLimit(), contentHandler.UploadContent)
		}

		// Event feed routes (public)
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.GetEvents)
		}

		// Search routes
		search := v1.Group("/search")
		{
			search.GET("/products", middleware.OptionalAuth(), marketplaceHandler.GetProducts)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.DELETE("/products/:id", marketplaceHandler.DeleteProduct)
			admin.GET("/stats", marketplaceHandler.GetMarketStats)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
