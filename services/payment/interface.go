package payment

import (
	"context"

	bookingRepo "safarihub/database/repository/booking"
	cartRepo "safarihub/database/repository/cart"
	paymentRepo "safarihub/database/repository/payment"
	"safarihub/models"
	"safarihub/services/events"
	"safarihub/services/notification"
	"safarihub/services/payment/mpesa"
	"safarihub/services/receipt"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// StripeInitResult carries what the client needs to complete a card payment.
type StripeInitResult struct {
	PaymentID    string `json:"payment_id"`
	ClientSecret string `json:"client_secret"`
}

// MpesaInitResult acknowledges that an STK push was sent to the phone.
type MpesaInitResult struct {
	PaymentID         string `json:"payment_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

// PaymentStatus is the reconciled view of a booking's payment.
type PaymentStatus struct {
	BookingID     string  `json:"booking_id"`
	BookingStatus string  `json:"booking_status"`
	PaymentID     string  `json:"payment_id,omitempty"`
	Method        string  `json:"method,omitempty"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

// StripeGateway is the slice of the Stripe API the initiator and reconciler
// touch. The live implementation calls stripe-go.
type StripeGateway interface {
	CreateIntent(amountMinor int64, currency, bookingID string) (*stripe.PaymentIntent, error)
	GetIntent(intentID string) (*stripe.PaymentIntent, error)
}

// StkPusher is the slice of the Daraja API the initiator touches.
type StkPusher interface {
	StkPush(ctx context.Context, phone string, amount float64, accountRef, description string) (*mpesa.StkPushResponse, error)
}

// PaymentService initiates charges and reconciles the asynchronous outcomes
// reported by the providers.
type PaymentService interface {
	InitiateStripe(ctx context.Context, userID, bookingID string) (*StripeInitResult, error)
	InitiateMpesa(ctx context.Context, userID, bookingID, phone string, amount float64) (*MpesaInitResult, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
	HandleMpesaCallback(ctx context.Context, cb *models.MpesaCallback) error
	Reconcile(ctx context.Context, bookingID string) error
	GetStatus(ctx context.Context, userID string, isAdmin bool, bookingID string) (*PaymentStatus, error)
}

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Bookings bookingRepo.BookingRepository
	Payments paymentRepo.PaymentRepository
	Carts    cartRepo.CartRepository
	Stripe   StripeGateway
	Mpesa    StkPusher
	// Verify checks a webhook payload against its signature. Defaults to
	// stripe's webhook.ConstructEvent in main.
	Verify        func(payload []byte, signature, secret string) (stripe.Event, error)
	WebhookSecret string
	Events        events.Publisher
	Notifier      notification.NotificationService
	Receipts      receipt.ReceiptService
	// EnqueuePoll schedules a deferred reconciliation for a booking. Wired to
	// the asynq enqueuer in main; nil in tests.
	EnqueuePoll func(bookingID string)
	Currency    string
	Logger      *zap.Logger
}
