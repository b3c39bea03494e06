package bookingRepo

import (
	"time"

	"safarihub/models"
)

// BookingRepository defines methods for booking data access. Status and
// payment-status transitions go through conditional updates so that
// out-of-order or duplicate callers converge on the same state.
type BookingRepository interface {
	// Create inserts a new booking record. The unique index on booking_number
	// is the real uniqueness guarantee behind the generated reference.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID. Returns (nil, nil) when absent.
	GetByID(id string) (*models.Booking, error)
	// GetByNumber retrieves a booking by its human-shareable reference.
	GetByNumber(number string) (*models.Booking, error)
	// ListByUserID retrieves all bookings of a user, newest first.
	ListByUserID(userID string) ([]models.Booking, error)
	// SetPaymentOutcome records the reconciled payment status and, when
	// completed, promotes the booking to confirmed. A cancelled booking keeps
	// its status; only the payment status is recorded.
	SetPaymentOutcome(bookingID, paymentStatus, bookingStatus string) error
	// SetCancelled records the cancellation block. Returns false when the
	// booking was already cancelled.
	SetCancelled(bookingID string, c models.Cancellation) (bool, error)
	// CountOverlapping counts non-cancelled bookings on a service whose date
	// range overlaps [start, end].
	CountOverlapping(serviceID string, start, end time.Time) (int64, error)
}
