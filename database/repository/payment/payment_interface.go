package paymentRepo

import "safarihub/models"

// PaymentRepository defines methods for payment data access. Terminal states
// are enforced here: MarkCompleted and MarkFailed only match non-terminal
// records, so replayed provider callbacks fall through as no-ops.
type PaymentRepository interface {
	// Create inserts a new payment record.
	Create(payment *models.Payment) error
	// GetByID retrieves a payment by its unique ID. Returns (nil, nil) when absent.
	GetByID(id string) (*models.Payment, error)
	// GetByStripeIntentID retrieves a payment by its Stripe PaymentIntent ID.
	GetByStripeIntentID(intentID string) (*models.Payment, error)
	// GetByCheckoutRequestID retrieves a payment by its M-Pesa correlation ID.
	GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error)
	// GetLatestByBookingID retrieves the most recent payment for a booking.
	GetLatestByBookingID(bookingID string) (*models.Payment, error)
	// HasSettledOrInFlight reports whether the booking already carries a
	// processing or completed payment.
	HasSettledOrInFlight(bookingID string) (bool, error)
	// MarkCompleted transitions a non-terminal payment to completed, recording
	// the provider receipt. Returns false when the payment was already terminal.
	MarkCompleted(id, transactionID string) (bool, error)
	// MarkFailed transitions a non-terminal payment to failed. Returns false
	// when the payment was already terminal.
	MarkFailed(id string) (bool, error)
	// SetRefundStatus records refund eligibility on a payment.
	SetRefundStatus(id, refundStatus string) error
}
