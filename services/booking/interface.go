package booking

import (
	"time"

	bookingRepo "safarihub/database/repository/booking"
	cartRepo "safarihub/database/repository/cart"
	catalogRepo "safarihub/database/repository/catalog"
	paymentRepo "safarihub/database/repository/payment"
	"safarihub/models"
	"safarihub/services/events"
	"safarihub/services/notification"

	"go.uber.org/zap"
)

// SingleServiceInput carries a direct (cart-less) booking request.
type SingleServiceInput struct {
	ServiceID       string
	StartDate       time.Time
	EndDate         time.Time
	Participants    int
	Contact         models.ContactInfo
	SpecialRequests string
}

// CancelResult reports the refund computed at cancellation time. Moving the
// money is the payment provider's job, invoked downstream.
type CancelResult struct {
	RefundAmount float64 `json:"refund_amount"`
	RefundStatus string  `json:"refund_status"`
}

// BookingService converts carts into bookings and owns the cancellation flow.
type BookingService interface {
	CreateFromCart(userID string, contact models.ContactInfo, notes string) (*models.Booking, error)
	CreateFromSingleService(userID string, input SingleServiceInput) (*models.Booking, error)
	GetByID(userID string, isAdmin bool, bookingID string) (*models.Booking, error)
	ListForUser(userID string) ([]models.Booking, error)
	Cancel(bookingID, actorID string, isAdmin bool, reason string) (*CancelResult, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	CartRepo cartRepo.CartRepository
	Catalog  catalogRepo.CatalogRepository
	Payments paymentRepo.PaymentRepository
	Events   events.Publisher
	Notifier notification.NotificationService
	Currency string
	Logger   *zap.Logger
}
