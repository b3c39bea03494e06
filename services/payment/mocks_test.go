package payment

import (
	"context"
	"errors"
	"time"

	"safarihub/models"
	"safarihub/services/payment/mpesa"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// In-memory fakes for the payment service's collaborators.

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Create(b *models.Booking) error { f.bookings[b.ID] = b; return nil }

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) GetByNumber(number string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingRepo) ListByUserID(userID string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) SetPaymentOutcome(bookingID, paymentStatus, bookingStatus string) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.PaymentStatus = paymentStatus
		if bookingStatus != "" && b.Status != models.BookingStatusCancelled {
			b.Status = bookingStatus
		}
	}
	return nil
}

func (f *fakeBookingRepo) SetCancelled(bookingID string, c models.Cancellation) (bool, error) {
	return false, nil
}

func (f *fakeBookingRepo) CountOverlapping(serviceID string, start, end time.Time) (int64, error) {
	return 0, nil
}

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Create(p *models.Payment) error { f.payments[p.ID] = p; return nil }

func (f *fakePaymentRepo) GetByID(id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) GetByStripeIntentID(intentID string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.StripePaymentIntentID == intentID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.MpesaCheckoutRequestID == checkoutRequestID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetLatestByBookingID(bookingID string) (*models.Payment, error) {
	var latest *models.Payment
	for _, p := range f.payments {
		if p.BookingID != bookingID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (f *fakePaymentRepo) HasSettledOrInFlight(bookingID string) (bool, error) {
	for _, p := range f.payments {
		if p.BookingID == bookingID &&
			(p.Status == models.PaymentStatusProcessing || p.Status == models.PaymentStatusCompleted) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) MarkCompleted(id, transactionID string) (bool, error) {
	p, ok := f.payments[id]
	if !ok || p.Terminal() {
		return false, nil
	}
	p.Status = models.PaymentStatusCompleted
	p.TransactionID = transactionID
	return true, nil
}

func (f *fakePaymentRepo) MarkFailed(id string) (bool, error) {
	p, ok := f.payments[id]
	if !ok || p.Terminal() {
		return false, nil
	}
	p.Status = models.PaymentStatusFailed
	return true, nil
}

func (f *fakePaymentRepo) SetRefundStatus(id, refundStatus string) error {
	if p, ok := f.payments[id]; ok {
		p.RefundStatus = refundStatus
	}
	return nil
}

type fakeCartRepo struct {
	converted []string
}

func (f *fakeCartRepo) GetActiveByUserID(userID string) (*models.Cart, error) { return nil, nil }
func (f *fakeCartRepo) Create(cart *models.Cart) error                        { return nil }
func (f *fakeCartRepo) UpdateVersioned(cart *models.Cart) error               { return nil }
func (f *fakeCartRepo) ConvertActiveByUserID(userID string) error {
	f.converted = append(f.converted, userID)
	return nil
}

type fakeStripeGateway struct {
	intent    *stripe.PaymentIntent
	createErr error
	getErr    error
	created   int
}

func (f *fakeStripeGateway) CreateIntent(amountMinor int64, currency, bookingID string) (*stripe.PaymentIntent, error) {
	f.created++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &stripe.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: amountMinor}, nil
}

func (f *fakeStripeGateway) GetIntent(intentID string) (*stripe.PaymentIntent, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &stripe.PaymentIntent{ID: intentID, Status: stripe.PaymentIntentStatusProcessing}, nil
}

type fakeStkPusher struct {
	resp    *mpesa.StkPushResponse
	err     error
	pushes  int
	lastRef string
}

func (f *fakeStkPusher) StkPush(ctx context.Context, phone string, amount float64, accountRef, description string) (*mpesa.StkPushResponse, error) {
	f.pushes++
	f.lastRef = accountRef
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &mpesa.StkPushResponse{
		CheckoutRequestID: "ws_CO_test",
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

var errProviderDown = errors.New("provider unavailable")

func payableBooking(id, userID string, total float64) *models.Booking {
	return &models.Booking{
		ID:            id,
		BookingNumber: "SH-20260314093000-ABC123",
		UserID:        userID,
		TotalAmount:   total,
		Currency:      "kes",
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func newTestPaymentService() (*DefaultPaymentService, *fakeBookingRepo, *fakePaymentRepo, *fakeCartRepo, *fakeStripeGateway, *fakeStkPusher) {
	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	carts := &fakeCartRepo{}
	gateway := &fakeStripeGateway{}
	pusher := &fakeStkPusher{}
	svc := &DefaultPaymentService{
		Bookings: bookings,
		Payments: payments,
		Carts:    carts,
		Stripe:   gateway,
		Mpesa:    pusher,
		Currency: "kes",
		Logger:   zap.NewNop(),
	}
	return svc, bookings, payments, carts, gateway, pusher
}
