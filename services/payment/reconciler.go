package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safarihub/models"
	"safarihub/utils"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// HandleStripeWebhook verifies and applies a Stripe event. Unknown event
// types and unmatched intents are acknowledged without state change so Stripe
// stops retrying.
func (s *DefaultPaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.Verify(payload, signature, s.WebhookSecret)
	if err != nil {
		return utils.NewInvalidArgument("webhook signature verification failed")
	}
	return s.applyStripeEvent(ctx, event)
}

func (s *DefaultPaymentService) applyStripeEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return utils.NewInvalidArgument("malformed payment_intent payload")
	}

	p, err := s.Payments.GetByStripeIntentID(intent.ID)
	if err != nil {
		return err
	}
	if p == nil {
		s.Logger.Warn("Stripe event for unknown intent acknowledged",
			zap.String("intentID", intent.ID))
		return utils.NewReconciliationSkipped(fmt.Sprintf("no payment for intent %s", intent.ID))
	}

	if event.Type == "payment_intent.succeeded" {
		return s.settleSuccess(ctx, p, intent.ID)
	}
	return s.settleFailure(ctx, p)
}

// HandleMpesaCallback applies a Daraja STK result. Callbacks whose
// CheckoutRequestID matches no known payment are acknowledged and dropped.
func (s *DefaultPaymentService) HandleMpesaCallback(ctx context.Context, cb *models.MpesaCallback) error {
	stk := cb.Body.StkCallback
	p, err := s.Payments.GetByCheckoutRequestID(stk.CheckoutRequestID)
	if err != nil {
		return err
	}
	if p == nil {
		s.Logger.Warn("M-Pesa callback for unknown checkout request acknowledged",
			zap.String("checkoutRequestID", stk.CheckoutRequestID))
		return utils.NewReconciliationSkipped(fmt.Sprintf("no payment for checkout request %s", stk.CheckoutRequestID))
	}

	if stk.ResultCode == 0 {
		return s.settleSuccess(ctx, p, cb.ReceiptNumber())
	}
	s.Logger.Info("M-Pesa payment failed",
		zap.String("paymentID", p.ID),
		zap.Int("resultCode", stk.ResultCode),
		zap.String("resultDesc", stk.ResultDesc))
	return s.settleFailure(ctx, p)
}

// Reconcile re-checks a booking's latest payment against the provider. It is
// the safety net behind missed webhooks, invoked by the deferred poll worker.
func (s *DefaultPaymentService) Reconcile(ctx context.Context, bookingID string) error {
	p, err := s.Payments.GetLatestByBookingID(bookingID)
	if err != nil {
		return err
	}
	if p == nil || p.Terminal() {
		return nil
	}

	switch p.Method {
	case models.PaymentMethodStripe:
		intent, err := s.Stripe.GetIntent(p.StripePaymentIntentID)
		if err != nil {
			return fmt.Errorf("failed to fetch intent %s: %w", p.StripePaymentIntentID, err)
		}
		switch intent.Status {
		case stripe.PaymentIntentStatusSucceeded:
			return s.settleSuccess(ctx, p, intent.ID)
		case stripe.PaymentIntentStatusCanceled:
			return s.settleFailure(ctx, p)
		}
	case models.PaymentMethodMpesa:
		// Daraja offers no reliable query path for us here; stale processing
		// records older than an hour are failed so the customer can retry.
		if time.Since(p.CreatedAt) > time.Hour {
			return s.settleFailure(ctx, p)
		}
	}
	return nil
}

// settleSuccess drives the completion cascade exactly once. The conditional
// MarkCompleted write is what makes replayed callbacks harmless.
func (s *DefaultPaymentService) settleSuccess(ctx context.Context, p *models.Payment, transactionID string) error {
	applied, err := s.Payments.MarkCompleted(p.ID, transactionID)
	if err != nil {
		return err
	}
	if !applied {
		s.Logger.Info("Duplicate payment completion ignored", zap.String("paymentID", p.ID))
		return nil
	}

	b, err := s.Bookings.GetByID(p.BookingID)
	if err != nil {
		s.Logger.Warn("Booking lookup failed after payment", zap.String("bookingID", p.BookingID))
	}

	// The customer may cancel while an STK push is pending on their phone.
	// Money collected for a cancelled booking is recorded and flagged for
	// refund; the booking stays cancelled.
	if b != nil && b.Status == models.BookingStatusCancelled {
		if err := s.Bookings.SetPaymentOutcome(p.BookingID, models.PaymentStatusCompleted, ""); err != nil {
			return fmt.Errorf("failed to record payment on booking %s: %w", p.BookingID, err)
		}
		if err := s.Payments.SetRefundStatus(p.ID, models.RefundStatusPending); err != nil {
			return err
		}
		s.Logger.Warn("Payment landed on cancelled booking, flagged for refund",
			zap.String("paymentID", p.ID), zap.String("bookingID", p.BookingID))
		return nil
	}

	if err := s.Bookings.SetPaymentOutcome(p.BookingID, models.PaymentStatusCompleted, models.BookingStatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm booking %s: %w", p.BookingID, err)
	}
	if err := s.Carts.ConvertActiveByUserID(p.UserID); err != nil {
		s.Logger.Warn("Failed to convert cart after payment",
			zap.String("userID", p.UserID), zap.Error(err))
	}

	s.Logger.Info("Payment completed",
		zap.String("paymentID", p.ID),
		zap.String("bookingID", p.BookingID),
		zap.String("transactionID", transactionID))

	if b == nil {
		return nil
	}

	go s.afterCompletion(b, p, transactionID)
	return nil
}

// afterCompletion handles the side effects that must not block or fail the
// reconciliation itself.
func (s *DefaultPaymentService) afterCompletion(b *models.Booking, p *models.Payment, transactionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if s.Events != nil {
		event := models.BookingEvent{
			Type:          models.EventPaymentCompleted,
			BookingID:     b.ID,
			BookingNumber: b.BookingNumber,
			UserID:        b.UserID,
			PaymentID:     p.ID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			OccurredAt:    time.Now(),
		}
		if err := s.Events.Publish(event); err != nil {
			s.Logger.Warn("Failed to publish payment event", zap.Error(err))
		}
	}

	if s.Receipts != nil {
		paid := *p
		paid.Status = models.PaymentStatusCompleted
		paid.TransactionID = transactionID
		if path, err := s.Receipts.Generate(b, &paid); err != nil {
			s.Logger.Warn("Failed to generate receipt", zap.Error(err))
		} else {
			s.Logger.Info("Receipt generated", zap.String("path", path))
		}
	}

	if s.Notifier != nil {
		body := fmt.Sprintf("Your payment for booking %s was received. See you on safari!", b.BookingNumber)
		if err := s.Notifier.SendUserPushNotification(ctx, b.UserID, "Payment confirmed", body,
			map[string]string{"booking_id": b.ID}); err != nil {
			s.Logger.Warn("Failed to send payment notification", zap.Error(err))
		}
	}
}

// settleFailure marks the payment failed. The booking itself is untouched so
// the customer can retry with a fresh attempt.
func (s *DefaultPaymentService) settleFailure(ctx context.Context, p *models.Payment) error {
	applied, err := s.Payments.MarkFailed(p.ID)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	s.Logger.Info("Payment failed",
		zap.String("paymentID", p.ID), zap.String("bookingID", p.BookingID))

	if s.Events != nil {
		b, err := s.Bookings.GetByID(p.BookingID)
		number := ""
		if err == nil && b != nil {
			number = b.BookingNumber
		}
		event := models.BookingEvent{
			Type:          models.EventPaymentFailed,
			BookingID:     p.BookingID,
			BookingNumber: number,
			UserID:        p.UserID,
			PaymentID:     p.ID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			OccurredAt:    time.Now(),
		}
		go func() {
			if err := s.Events.Publish(event); err != nil {
				s.Logger.Warn("Failed to publish payment event", zap.Error(err))
			}
		}()
	}
	return nil
}

// GetStatus reports the reconciled payment state of a booking to its owner
// or an admin. A poll against an in-flight payment re-checks the provider
// first, so a client that missed the webhook still converges.
func (s *DefaultPaymentService) GetStatus(ctx context.Context, userID string, isAdmin bool, bookingID string) (*PaymentStatus, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || (!isAdmin && b.UserID != userID) {
		return nil, utils.NewNotFound(fmt.Sprintf("booking %s not found", bookingID))
	}

	p, err := s.Payments.GetLatestByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	if p != nil && !p.Terminal() {
		if err := s.Reconcile(ctx, bookingID); err != nil {
			s.Logger.Warn("Reconciliation during status poll failed",
				zap.String("bookingID", bookingID), zap.Error(err))
		} else {
			if refreshed, err := s.Payments.GetLatestByBookingID(bookingID); err == nil && refreshed != nil {
				p = refreshed
			}
			if rb, err := s.Bookings.GetByID(bookingID); err == nil && rb != nil {
				b = rb
			}
		}
	}

	status := &PaymentStatus{BookingID: bookingID, BookingStatus: b.Status, Status: b.PaymentStatus}
	if p != nil {
		status.PaymentID = p.ID
		status.Method = p.Method
		status.Status = p.Status
		status.Amount = p.Amount
		status.TransactionID = p.TransactionID
	}
	return status, nil
}
