package payment

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"safarihub/models"
	"safarihub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// kenyanPhonePattern matches E.164 Kenyan mobile numbers, the only format
// Daraja STK push accepts from us.
var kenyanPhonePattern = regexp.MustCompile(`^\+254[0-9]{9}$`)

// amountTolerance is the fraction of the booking total an M-Pesa amount may
// deviate by before the request is rejected.
const amountTolerance = 0.05

// loadPayableBooking fetches the booking and checks that the caller owns it
// and that no payment is already settled or in flight.
func (s *DefaultPaymentService) loadPayableBooking(userID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != userID {
		return nil, utils.NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}
	if b.Status == models.BookingStatusCancelled {
		return nil, utils.NewConflict("booking is cancelled and cannot be paid for")
	}
	if b.PaymentStatus == models.PaymentStatusCompleted {
		return nil, utils.NewConflict("booking is already paid")
	}
	busy, err := s.Payments.HasSettledOrInFlight(bookingID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, utils.NewConflict("a payment for this booking is already in progress")
	}
	return b, nil
}

// InitiateStripe creates a Stripe PaymentIntent for the booking's full amount
// and records the attempt. The charge amount is taken from the booking, never
// from the client.
func (s *DefaultPaymentService) InitiateStripe(ctx context.Context, userID, bookingID string) (*StripeInitResult, error) {
	b, err := s.loadPayableBooking(userID, bookingID)
	if err != nil {
		return nil, err
	}

	amountMinor := int64(math.Round(b.TotalAmount * 100))
	intent, err := s.Stripe.CreateIntent(amountMinor, b.Currency, b.ID)
	if err != nil {
		s.Logger.Error("Stripe intent creation failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return nil, utils.NewPaymentInitFailed("card payment could not be started")
	}

	now := time.Now()
	p := &models.Payment{
		ID:                    uuid.New().String(),
		BookingID:             b.ID,
		UserID:                userID,
		Amount:                b.TotalAmount,
		Currency:              b.Currency,
		Method:                models.PaymentMethodStripe,
		Status:                models.PaymentStatusPending,
		StripePaymentIntentID: intent.ID,
		RefundStatus:          models.RefundStatusNone,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.Payments.Create(p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.Logger.Info("Stripe payment initiated",
		zap.String("bookingID", b.ID), zap.String("paymentID", p.ID))
	s.schedulePoll(b.ID)

	return &StripeInitResult{PaymentID: p.ID, ClientSecret: intent.ClientSecret}, nil
}

// InitiateMpesa sends an STK push to the customer's phone. The client-supplied
// amount is checked against the booking total with a small tolerance; the
// attempt is only recorded once Daraja has accepted the push.
func (s *DefaultPaymentService) InitiateMpesa(ctx context.Context, userID, bookingID, phone string, amount float64) (*MpesaInitResult, error) {
	if !kenyanPhonePattern.MatchString(phone) {
		return nil, utils.NewInvalidArgument("phone must be in +254XXXXXXXXX format")
	}

	b, err := s.loadPayableBooking(userID, bookingID)
	if err != nil {
		return nil, err
	}

	if diff := math.Abs(amount - b.TotalAmount); diff > amountTolerance*b.TotalAmount+1e-9 {
		return nil, utils.NewInvalidArgument(
			fmt.Sprintf("amount %.2f does not match booking total %.2f", amount, b.TotalAmount))
	}

	resp, err := s.Mpesa.StkPush(ctx, phone, b.TotalAmount, b.BookingNumber, "SafariHub booking payment")
	if err != nil {
		s.Logger.Error("M-Pesa STK push failed",
			zap.String("bookingID", b.ID), zap.Error(err))
		return nil, utils.NewPaymentInitFailed("mobile payment could not be started")
	}

	now := time.Now()
	p := &models.Payment{
		ID:                     uuid.New().String(),
		BookingID:              b.ID,
		UserID:                 userID,
		Amount:                 b.TotalAmount,
		Currency:               b.Currency,
		Method:                 models.PaymentMethodMpesa,
		Status:                 models.PaymentStatusProcessing,
		MpesaCheckoutRequestID: resp.CheckoutRequestID,
		MpesaPhone:             phone,
		RefundStatus:           models.RefundStatusNone,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.Payments.Create(p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.Logger.Info("M-Pesa payment initiated",
		zap.String("bookingID", b.ID),
		zap.String("checkoutRequestID", resp.CheckoutRequestID))
	s.schedulePoll(b.ID)

	return &MpesaInitResult{
		PaymentID:         p.ID,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (s *DefaultPaymentService) schedulePoll(bookingID string) {
	if s.EnqueuePoll != nil {
		s.EnqueuePoll(bookingID)
	}
}
