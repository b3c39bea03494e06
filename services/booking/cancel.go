package booking

import (
	"fmt"
	"time"

	"safarihub/models"
	"safarihub/utils"
)

// RefundFraction maps hours-until-start to the refundable fraction of the
// booking total. More than 48 hours out refunds in full; the 48h boundary
// itself falls in the 50% bracket.
func RefundFraction(hoursUntilStart float64) float64 {
	switch {
	case hoursUntilStart > 48:
		return 1.0
	case hoursUntilStart > 24:
		return 0.5
	default:
		return 0
	}
}

// Cancel cancels a booking on behalf of its owner or an admin and computes
// the refund from the time-to-start window. Only eligibility is computed
// here; issuing the refund through the original provider happens downstream.
func (s *DefaultBookingService) Cancel(bookingID, actorID string, isAdmin bool, reason string) (*CancelResult, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}
	if booking.UserID != actorID && !isAdmin {
		return nil, utils.NewForbidden("only the booking owner or an admin can cancel")
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, utils.NewConflict("booking is already cancelled")
	}

	now := time.Now()
	// A booking with no dated items has no start to measure against; it stays
	// fully refundable.
	fraction := 1.0
	if start := booking.StartDate(); start != nil {
		fraction = RefundFraction(start.Sub(now).Hours())
	}
	refundAmount := booking.TotalAmount * fraction

	cancellation := models.Cancellation{
		CancelledBy:  actorID,
		CancelledAt:  now,
		Reason:       reason,
		RefundAmount: refundAmount,
	}
	applied, err := s.Repo.SetCancelled(bookingID, cancellation)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.NewConflict("booking is already cancelled")
	}

	refundStatus := models.RefundStatusNone
	if refundAmount > 0 {
		payment, err := s.Payments.GetLatestByBookingID(bookingID)
		if err != nil {
			return nil, err
		}
		if payment != nil && payment.Status == models.PaymentStatusCompleted {
			if err := s.Payments.SetRefundStatus(payment.ID, models.RefundStatusPending); err != nil {
				return nil, err
			}
			refundStatus = models.RefundStatusPending
		}
	}

	s.publish(models.EventBookingCancelled, booking, "")
	s.notify(booking.UserID,
		"Booking cancelled",
		fmt.Sprintf("Your booking %s has been cancelled. Refund amount: %s %.2f.", booking.BookingNumber, booking.Currency, refundAmount),
		map[string]string{
			"type":      "booking_cancelled",
			"bookingId": booking.ID,
		})

	return &CancelResult{RefundAmount: refundAmount, RefundStatus: refundStatus}, nil
}
