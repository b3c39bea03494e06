package routes

import (
	"net/http"
	"time"

	"safarihub/handlers"
	"safarihub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.GetMeHandler)
		api.PUT("/me/fcm-token", hb.SetFCMTokenHandler)
		api.POST("/logout", hb.LogoutHandler)
	}
}

// RegisterCatalogRoutes registers the services catalog. Reads are public,
// writes are admin only.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.ListServicesHandler)
		api.GET("/:id", hb.GetServiceHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		admin.POST("", hb.CreateServiceHandler)
		admin.PUT("/:id", hb.UpdateServiceHandler)
		admin.POST("/:id/image", hb.UploadServiceImageHandler)
	}
}

// RegisterCartRoutes registers the shopping cart endpoints.
func RegisterCartRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cart")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.GetCartHandler)
		api.DELETE("", hb.ClearCartHandler)
		api.POST("/items", hb.AddCartItemHandler)
		api.PUT("/items/:itemID", hb.UpdateCartItemHandler)
		api.DELETE("/items/:itemID", hb.RemoveCartItemHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/checkout", hb.CheckoutCartHandler)
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes registers the payment initiation and status endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/stripe", hb.InitiateStripeHandler)
		api.POST("/mpesa", hb.InitiateMpesaHandler)
		api.GET("/:bookingID/status", hb.PaymentStatusHandler)
	}
}

// RegisterWebhookRoutes registers the provider callback endpoints. These are
// unauthenticated; each handler verifies its payload on its own terms.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	hooks := r.Group("/webhooks")
	{
		hooks.POST("/stripe", hb.StripeWebhookHandler)
		hooks.POST("/mpesa", hb.MpesaCallbackHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm SafariHub"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterCartRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
