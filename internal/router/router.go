// internal/router/router.go
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbanz/sabores-backend/internal/cache"
	"github.com/urbanz/sabores-backend/internal/config"
	"github.com/urbanz/sabores-backend/internal/handlers"
	"github.com/urbanz/sabores-backend/internal/middleware"
	"github.com/urbanz/sabores-backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Shared state
	productCache := cache.NewProductCache(time.Duration(cfg.Cache.ProductTTLSeconds) * time.Second)

	// Initialize services
	pixService := services.NewPixService(cfg.Pix)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	inventoryService := services.NewInventoryService(db, productCache)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, productCache)
	categoryService := services.NewCategoryService(db, productCache)
	orderService := services.NewOrderService(db, pixService, inventoryService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService, cfg.Cache.ProductTTLSeconds)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService, inventoryService)
	webhookHandler := handlers.NewWebhookHandler(orderService)
	cacheHandler := handlers.NewCacheHandler(productCache, productService)
	debugHandler := handlers.NewDebugHandler(categoryService, authService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.Default())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Backend Urban Z Sabores está funcionando!",
			"status":  "OK",
		})
	})

	adminOnly := middleware.AuthRequired(cfg.Auth.AdminToken)

	api := r.Group("/api")
	{
		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.GET("/verify", authHandler.Verify)
		}

		// Products
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", adminOnly, productHandler.SaveProducts)
			products.POST("/upload-image", adminOnly, middleware.UploadRateLimit(), productHandler.UploadImage)
		}

		// Categories
		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", adminOnly, categoryHandler.SaveCategories)
			categories.POST("/add", adminOnly, categoryHandler.AddCategory)
			categories.DELETE("/:categoryId", adminOnly, categoryHandler.DeleteCategory)
		}

		// Orders
		orders := api.Group("/orders")
		{
			orders.POST("/create-pix", orderHandler.CreatePixOrder)
			orders.GET("/:id/status", orderHandler.GetOrderStatus)
			orders.POST("/update-stock", orderHandler.UpdateStock)
			orders.GET("", adminOnly, orderHandler.GetOrders)
			orders.GET("/:id", adminOnly, orderHandler.GetOrder)
		}

		// Stock audit trail
		api.GET("/stock/adjustments", adminOnly, orderHandler.GetStockAdjustments)

		// Gateway push notifications
		api.POST("/webhook/pix", webhookHandler.HandlePixWebhook)

		// Cache control
		cacheGroup := api.Group("/cache")
		{
			cacheGroup.POST("/clear", cacheHandler.Clear)
			cacheGroup.POST("/refresh", cacheHandler.Refresh)
		}

		// Debug
		debug := api.Group("/debug")
		{
			debug.GET("/categories", debugHandler.GetCategories)
			debug.GET("/credentials", debugHandler.GetCredentials)
			debug.GET("/encrypt/:text", debugHandler.EncryptRoundTrip)
		}
	}

	// Static file serving (for the local-disk storage fallback)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r, nil
}

// EnsureSeedData runs the idempotent startup seeding.
func EnsureSeedData(db *gorm.DB, cfg *config.Config) error {
	authService := services.NewAuthService(db, cfg)
	return authService.EnsureAdminCredentials()
}
