package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/internal/app/controller"
	"github.com/vitalbites/vitalbites-backend/internal/middleware"
	"github.com/vitalbites/vitalbites-backend/internal/websocket"
)

type Router struct {
	authController    *controller.AuthController
	addressController *controller.AddressController
	menuController    *controller.MenuController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	adminController   *controller.AdminController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	hub               *websocket.Hub
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	addressController *controller.AddressController,
	menuController *controller.MenuController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		addressController: addressController,
		menuController:    menuController,
		cartController:    cartController,
		orderController:   orderController,
		adminController:   adminController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		hub:               hub,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "VitalBites API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/send-otp",
				middleware.RateLimit("send-otp", 10, time.Minute),
				r.authController.SendOTP,
			)
			auth.POST("/verify-otp",
				middleware.RateLimit("verify-otp", 20, time.Minute),
				r.authController.VerifyOTP,
			)
			auth.POST("/complete-registration", r.authController.CompleteRegistration)
			auth.GET("/verify", r.authMiddleware.Authenticate(), r.authController.VerifySession)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)

			addresses := auth.Group("/addresses")
			addresses.Use(r.authMiddleware.Authenticate())
			{
				addresses.GET("", r.addressController.GetAddresses)
				addresses.POST("", r.addressController.CreateAddress)
				addresses.PUT("/:id", r.addressController.UpdateAddress)
				addresses.DELETE("/:id", r.addressController.DeleteAddress)
				addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
			}
		}

		// Catalog reads are public, mutations are admin only
		menu := api.Group("/menu")
		{
			menu.GET("", r.menuController.GetMenuItems)
			menu.GET("/categories", r.menuController.GetCategories)
			menu.GET("/restaurants", r.menuController.GetRestaurants)
			menu.GET("/:id", r.menuController.GetMenuItem)

			adminOnly := []gin.HandlerFunc{r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin()}
			menu.POST("", append(adminOnly, r.menuController.CreateMenuItem)...)
			menu.PUT("/:id", append(adminOnly, r.menuController.UpdateMenuItem)...)
			menu.DELETE("/:id", append(adminOnly, r.menuController.DeleteMenuItem)...)
			menu.POST("/upload", append(adminOnly, r.uploadController.PresignMenuImage)...)
		}

		cart := api.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/summary", r.cartController.GetSummary)
			cart.POST("/add", r.cartController.AddToCart)
			cart.POST("/sync", r.cartController.SyncCart)
			cart.PUT("/update/:menuItemId", r.cartController.UpdateCartItem)
			cart.DELETE("/remove/:menuItemId", r.cartController.RemoveFromCart)
			cart.DELETE("/clear", r.cartController.ClearCart)
		}

		orders := api.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("/ws", websocket.ServeWS(r.hub))
			orders.GET("/:userId", r.orderController.GetUserOrders)
			orders.GET("/:userId/:orderId", r.orderController.GetOrder)

			adminOnly := r.authMiddleware.RequireAdmin()
			orders.GET("", adminOnly, r.orderController.GetAllOrders)
			orders.GET("/stats/summary", adminOnly, r.orderController.GetOrderStats)
			orders.PUT("/:id", adminOnly, r.orderController.UpdateOrderStatus)
			orders.DELETE("/:id", adminOnly, r.orderController.DeleteOrder)
		}

		admin := api.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			admin.GET("/users", r.adminController.ListUsers)
			admin.PUT("/users/:id/role", r.adminController.UpdateUserRole)
			admin.DELETE("/users/:id", r.adminController.DeleteUser)
			admin.GET("/users/:id/addresses", r.adminController.GetUserAddresses)
			admin.GET("/addresses", r.adminController.ListAllAddresses)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
