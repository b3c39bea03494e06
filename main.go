package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safarihub/config"
	"safarihub/cron"
	"safarihub/database"
	bookingRepoPkg "safarihub/database/repository/booking"
	cartRepoPkg "safarihub/database/repository/cart"
	catalogRepoPkg "safarihub/database/repository/catalog"
	paymentRepoPkg "safarihub/database/repository/payment"
	userRepoPkg "safarihub/database/repository/user"
	"safarihub/handlers"
	"safarihub/middleware"
	"safarihub/routes"
	"safarihub/services/booking"
	"safarihub/services/cart"
	"safarihub/services/events"
	"safarihub/services/notification"
	"safarihub/services/payment"
	"safarihub/services/payment/mpesa"
	"safarihub/services/receipt"
	"safarihub/services/storage"
	"safarihub/services/user"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	cloudinaryStorage, err := storage.NewCloudinaryStorage(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	eventPublisher, err := events.NewAMQPPublisher(
		config.AppConfig.AmqpURL,
		config.AppConfig.BookingEventsQueue,
		logger,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize event publisher: %v", err)
	}
	defer eventPublisher.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	cartRepo := cartRepoPkg.NewMongoCartRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}

	notificationService := &notification.DefaultNotificationService{
		Users:  userRepo,
		FCM:    utils.FCMClient,
		Logger: logger,
	}

	cartService := &cart.DefaultCartService{
		Repo:    cartRepo,
		Catalog: catalogRepo,
		Logger:  logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:     bookingRepo,
		CartRepo: cartRepo,
		Catalog:  catalogRepo,
		Payments: paymentRepo,
		Events:   eventPublisher,
		Notifier: notificationService,
		Currency: config.AppConfig.Currency,
		Logger:   logger,
	}

	queueClient := cron.NewQueueClient()
	defer queueClient.Close()

	paymentService := &payment.DefaultPaymentService{
		Bookings:      bookingRepo,
		Payments:      paymentRepo,
		Carts:         cartRepo,
		Stripe:        payment.LiveStripeGateway{},
		Mpesa:         mpesa.NewClient(),
		Verify:        webhook.ConstructEvent,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		Events:        eventPublisher,
		Notifier:      notificationService,
		Receipts:      receipt.NewReceiptService(config.AppConfig.ReceiptsDir),
		EnqueuePoll: func(bookingID string) {
			cron.EnqueueReconcile(queueClient, bookingID)
		},
		Currency: config.AppConfig.Currency,
		Logger:   logger,
	}

	// Deferred reconciliation worker.
	cron.InitReconcileWorker(paymentService)

	// handlers.
	userHandler := &handlers.UserHandler{UserService: userService}
	catalogHandler := &handlers.CatalogHandler{Repo: catalogRepo, Storage: cloudinaryStorage}
	cartHandler := &handlers.CartHandler{CartService: cartService}
	bookingHandler := &handlers.BookingHandler{BookingService: bookingService}
	paymentHandler := &handlers.PaymentHandler{PaymentService: paymentService}
	webhookHandler := &handlers.WebhookHandler{PaymentService: paymentService}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// User endpoints.
		RegisterUserHandler:     userHandler.RegisterHandler,
		AuthenticateUserHandler: userHandler.AuthenticateHandler,
		GetMeHandler:            userHandler.GetMeHandler,
		SetFCMTokenHandler:      userHandler.SetFCMTokenHandler,
		LogoutHandler:           userHandler.LogoutHandler,

		// Catalog endpoints.
		ListServicesHandler:       catalogHandler.ListServicesHandler,
		GetServiceHandler:         catalogHandler.GetServiceHandler,
		CreateServiceHandler:      catalogHandler.CreateServiceHandler,
		UpdateServiceHandler:      catalogHandler.UpdateServiceHandler,
		UploadServiceImageHandler: catalogHandler.UploadServiceImageHandler,

		// Cart endpoints.
		GetCartHandler:        cartHandler.GetCartHandler,
		AddCartItemHandler:    cartHandler.AddItemHandler,
		UpdateCartItemHandler: cartHandler.UpdateItemHandler,
		RemoveCartItemHandler: cartHandler.RemoveItemHandler,
		ClearCartHandler:      cartHandler.ClearCartHandler,

		// Booking endpoints.
		CheckoutCartHandler:  bookingHandler.CreateFromCartHandler,
		CreateBookingHandler: bookingHandler.CreateSingleHandler,
		ListBookingsHandler:  bookingHandler.ListBookingsHandler,
		GetBookingHandler:    bookingHandler.GetBookingHandler,
		CancelBookingHandler: bookingHandler.CancelBookingHandler,

		// Payment endpoints.
		InitiateStripeHandler: paymentHandler.InitiateStripeHandler,
		InitiateMpesaHandler:  paymentHandler.InitiateMpesaHandler,
		PaymentStatusHandler:  paymentHandler.PaymentStatusHandler,

		// Webhook endpoints.
		StripeWebhookHandler: webhookHandler.StripeWebhookHandler,
		MpesaCallbackHandler: webhookHandler.MpesaCallbackHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
