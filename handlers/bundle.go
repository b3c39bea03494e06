package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route wiring.
type HandlerBundle struct {
	// User endpoints
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	GetMeHandler            gin.HandlerFunc
	SetFCMTokenHandler      gin.HandlerFunc
	LogoutHandler           gin.HandlerFunc

	// Catalog endpoints
	ListServicesHandler       gin.HandlerFunc
	GetServiceHandler         gin.HandlerFunc
	CreateServiceHandler      gin.HandlerFunc
	UpdateServiceHandler      gin.HandlerFunc
	UploadServiceImageHandler gin.HandlerFunc

	// Cart endpoints
	GetCartHandler        gin.HandlerFunc
	AddCartItemHandler    gin.HandlerFunc
	UpdateCartItemHandler gin.HandlerFunc
	RemoveCartItemHandler gin.HandlerFunc
	ClearCartHandler      gin.HandlerFunc

	// Booking endpoints
	CheckoutCartHandler  gin.HandlerFunc
	CreateBookingHandler gin.HandlerFunc
	ListBookingsHandler  gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc

	// Payment endpoints
	InitiateStripeHandler gin.HandlerFunc
	InitiateMpesaHandler  gin.HandlerFunc
	PaymentStatusHandler  gin.HandlerFunc

	// Webhook endpoints
	StripeWebhookHandler gin.HandlerFunc
	MpesaCallbackHandler gin.HandlerFunc
}
