package booking

import (
	"time"

	"safarihub/models"

	"go.uber.org/zap"
)

// In-memory fakes for the repositories the booking service touches.

type fakeBookingRepo struct {
	bookings    map[string]*models.Booking
	overlapping int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Create(b *models.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) GetByNumber(number string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.BookingNumber == number {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ListByUserID(userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
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
	b, ok := f.bookings[bookingID]
	if !ok || b.Status == models.BookingStatusCancelled {
		return false, nil
	}
	b.Status = models.BookingStatusCancelled
	b.Cancellation = &c
	return true, nil
}

func (f *fakeBookingRepo) CountOverlapping(serviceID string, start, end time.Time) (int64, error) {
	return f.overlapping, nil
}

type fakeCartRepo struct {
	cart *models.Cart
}

func (f *fakeCartRepo) GetActiveByUserID(userID string) (*models.Cart, error) {
	if f.cart == nil || f.cart.UserID != userID {
		return nil, nil
	}
	return f.cart, nil
}

func (f *fakeCartRepo) Create(cart *models.Cart) error          { f.cart = cart; return nil }
func (f *fakeCartRepo) UpdateVersioned(cart *models.Cart) error { f.cart = cart; return nil }
func (f *fakeCartRepo) ConvertActiveByUserID(userID string) error {
	if f.cart != nil {
		f.cart.Status = models.CartStatusConverted
	}
	return nil
}

type fakeCatalog struct {
	services map[string]*models.TourService
}

func (f *fakeCatalog) GetByID(id string) (*models.TourService, error) {
	return f.services[id], nil
}
func (f *fakeCatalog) List(category string) ([]models.TourService, error) { return nil, nil }
func (f *fakeCatalog) Create(svc *models.TourService) error               { return nil }
func (f *fakeCatalog) Update(svc *models.TourService) error               { return nil }
func (f *fakeCatalog) SetImage(id, publicID string) error                 { return nil }

type fakePaymentRepo struct {
	latest       *models.Payment
	refundStatus string
}

func (f *fakePaymentRepo) Create(p *models.Payment) error                      { return nil }
func (f *fakePaymentRepo) GetByID(id string) (*models.Payment, error)          { return nil, nil }
func (f *fakePaymentRepo) GetByStripeIntentID(id string) (*models.Payment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) GetByCheckoutRequestID(id string) (*models.Payment, error) {
	return nil, nil
}
func (f *fakePaymentRepo) GetLatestByBookingID(bookingID string) (*models.Payment, error) {
	return f.latest, nil
}
func (f *fakePaymentRepo) HasSettledOrInFlight(bookingID string) (bool, error) { return false, nil }
func (f *fakePaymentRepo) MarkCompleted(id, transactionID string) (bool, error) {
	return false, nil
}
func (f *fakePaymentRepo) MarkFailed(id string) (bool, error) { return false, nil }
func (f *fakePaymentRepo) SetRefundStatus(id, refundStatus string) error {
	f.refundStatus = refundStatus
	return nil
}

func newTestBookingService() (*DefaultBookingService, *fakeBookingRepo, *fakeCartRepo, *fakePaymentRepo) {
	repo := newFakeBookingRepo()
	carts := &fakeCartRepo{}
	payments := &fakePaymentRepo{}
	catalog := &fakeCatalog{services: map[string]*models.TourService{
		"safari-1": {
			ID:       "safari-1",
			Name:     "Masai Mara Game Drive",
			Category: "safari",
			Price:    18000,
			Status:   models.ServiceStatusActive,
		},
	}}
	svc := &DefaultBookingService{
		Repo:     repo,
		CartRepo: carts,
		Catalog:  catalog,
		Payments: payments,
		Currency: "KES",
		Logger:   zap.NewNop(),
	}
	return svc, repo, carts, payments
}
