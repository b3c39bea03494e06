package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safarihub/models"
	"safarihub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validateContact(contact models.ContactInfo) error {
	if strings.TrimSpace(contact.Name) == "" {
		return utils.NewInvalidArgument("contact name is required")
	}
	if strings.TrimSpace(contact.Email) == "" {
		return utils.NewInvalidArgument("contact email is required")
	}
	return nil
}

// CreateFromCart converts the user's active cart into a booking, snapshotting
// every line's price, name and provider identity. The cart is left intact:
// it is only converted once a payment completes, so a failed payment leaves
// the cart recoverable.
func (s *DefaultBookingService) CreateFromCart(userID string, contact models.ContactInfo, notes string) (*models.Booking, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	c, err := s.CartRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, utils.NewInvalidArgument("cart is empty")
	}

	now := time.Now()
	items := make([]models.BookingItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, models.BookingItem{
			ServiceID:       it.ServiceID,
			ServiceName:     it.ServiceName,
			Category:        it.Category,
			ProviderID:      it.ProviderID,
			ProviderName:    it.ProviderName,
			UnitPrice:       it.UnitPrice,
			Quantity:        it.Quantity,
			Guests:          it.Guests,
			StartDate:       it.StartDate,
			EndDate:         it.EndDate,
			SpecialRequests: it.SpecialRequests,
			LineTotal:       it.LineTotal,
		})
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: GenerateBookingNumber(now),
		UserID:        userID,
		Items:         items,
		ContactInfo:   contact,
		TotalAmount:   c.TotalAmount,
		Currency:      s.Currency,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(models.EventBookingCreated, booking, "")
	return booking, nil
}

// CreateFromSingleService books one service directly, without a cart. The
// date range must not overlap an existing non-cancelled booking on the same
// service.
func (s *DefaultBookingService) CreateFromSingleService(userID string, input SingleServiceInput) (*models.Booking, error) {
	if err := validateContact(input.Contact); err != nil {
		return nil, err
	}
	if input.Participants < 1 {
		return nil, utils.NewInvalidArgument("participants must be at least 1")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.EndDate.Before(input.StartDate) {
		return nil, utils.NewInvalidArgument("invalid booking date range")
	}

	svc, err := s.Catalog.GetByID(input.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFound(fmt.Sprintf("service %s not found", input.ServiceID))
	}
	if !svc.Bookable() {
		return nil, utils.NewConflict(fmt.Sprintf("service %s is not available for booking", input.ServiceID))
	}

	overlapping, err := s.Repo.CountOverlapping(input.ServiceID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, utils.NewConflict("the selected dates overlap an existing booking for this service")
	}

	now := time.Now()
	start := input.StartDate
	end := input.EndDate
	lineTotal := svc.Price * float64(input.Participants)

	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: GenerateBookingNumber(now),
		UserID:        userID,
		Items: []models.BookingItem{{
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Category:        svc.Category,
			ProviderID:      svc.Provider.ID,
			ProviderName:    svc.Provider.Name,
			UnitPrice:       svc.Price,
			Quantity:        1,
			Guests:          input.Participants,
			StartDate:       &start,
			EndDate:         &end,
			SpecialRequests: input.SpecialRequests,
			LineTotal:       lineTotal,
		}},
		ContactInfo:   input.Contact,
		TotalAmount:   lineTotal,
		Currency:      s.Currency,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(models.EventBookingCreated, booking, "")
	return booking, nil
}

// GetByID returns a booking visible to the caller: the owner or an admin.
func (s *DefaultBookingService) GetByID(userID string, isAdmin bool, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || (booking.UserID != userID && !isAdmin) {
		return nil, utils.NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}
	return booking, nil
}

// ListForUser returns the user's bookings, newest first.
func (s *DefaultBookingService) ListForUser(userID string) ([]models.Booking, error) {
	return s.Repo.ListByUserID(userID)
}

// publish sends a lifecycle event without blocking the request path.
func (s *DefaultBookingService) publish(eventType string, booking *models.Booking, paymentID string) {
	if s.Events == nil {
		return
	}
	ev := models.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		UserID:        booking.UserID,
		PaymentID:     paymentID,
		Amount:        booking.TotalAmount,
		Currency:      booking.Currency,
		OccurredAt:    time.Now(),
	}
	go func() {
		if err := s.Events.Publish(ev); err != nil {
			s.Logger.Warn("failed to publish booking event",
				zap.String("type", eventType),
				zap.String("bookingID", booking.ID),
				zap.Error(err))
		}
	}()
}

// notify pushes a notification to the booking owner, best effort.
func (s *DefaultBookingService) notify(userID, title, body string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	go func() {
		if err := s.Notifier.SendUserPushNotification(context.Background(), userID, title, body, data); err != nil {
			s.Logger.Warn("failed to send push notification", zap.String("userID", userID), zap.Error(err))
		}
	}()
}
