// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/freshcart/freshcart-backend/internal/config"
	"github.com/freshcart/freshcart-backend/internal/handlers"
	"github.com/freshcart/freshcart-backend/internal/middleware"
	"github.com/freshcart/freshcart-backend/internal/services"
	"github.com/freshcart/freshcart-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	barcodeService := services.NewBarcodeService(services.NewCatalogLookup(db), cfg.Barcode, logger)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, storageService)
	categoryService := services.NewCategoryService(db)
	inventoryService := services.NewInventoryService(db)
	orderService := services.NewOrderService(db)
	agentService := services.NewAgentService(db)
	userService := services.NewUserService(db)
	storeService := services.NewStoreService(db)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, barcodeService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	agentHandler := handlers.NewAgentHandler(agentService)
	userHandler := handlers.NewUserHandler(userService)
	storeHandler := handlers.NewStoreHandler(storeService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

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
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Everything below is staff-only dashboard surface.
		admin := v1.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			products := admin.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.POST("", productHandler.CreateProduct)
				products.POST("/barcode-lookup", productHandler.BarcodeLookup)
				products.POST("/upload-image", middleware.UploadRateLimit(), productHandler.UploadImage)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.PUT("/:id/active", productHandler.SetActive)
				products.DELETE("/:id", productHandler.DeleteProduct)
			}

			categories := admin.Group("/categories")
			{
				categories.GET("", categoryHandler.GetCategories)
				categories.POST("", categoryHandler.CreateCategory)
				categories.PUT("/:id", categoryHandler.UpdateCategory)
				categories.DELETE("/:id", categoryHandler.DeleteCategory)
			}

			inventory := admin.Group("/inventory")
			{
				inventory.GET("", inventoryHandler.GetInventory)
				inventory.GET("/low-stock", inventoryHandler.GetLowStock)
				inventory.PUT("", inventoryHandler.UpdateInventory)
			}

			orders := admin.Group("/orders")
			{
				orders.GET("", orderHandler.GetOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id/status", orderHandler.UpdateStatus)
				orders.POST("/:id/assign", orderHandler.AssignAgent)
			}

			agents := admin.Group("/agents")
			{
				agents.GET("", agentHandler.GetAgents)
				agents.POST("", agentHandler.CreateAgent)
				agents.PUT("/:id", agentHandler.UpdateAgent)
				agents.POST("/:id/location", agentHandler.RecordLocation)
			}

			users := admin.Group("/users")
			{
				users.GET("", userHandler.GetUsers)
				users.GET("/customers", userHandler.GetCustomers)
				users.PUT("/:id/role", userHandler.UpdateRole)
			}

			stores := admin.Group("/stores")
			{
				stores.GET("", storeHandler.GetStores)
				stores.GET("/:id", storeHandler.GetStore)
				stores.PUT("/:id", storeHandler.UpdateStore)
			}

			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", dashboardHandler.GetStats)
				dashboard.GET("/recent-orders", dashboardHandler.GetRecentOrders)
				dashboard.GET("/top-products", dashboardHandler.GetTopProducts)
			}
		}
	}

	return r, nil
}
