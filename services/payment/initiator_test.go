package payment

import (
	"context"
	"testing"

	"safarihub/models"
	"safarihub/utils"
)

func TestInitiateStripe(t *testing.T) {
	svc, bookings, payments, _, gateway, _ := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)

	result, err := svc.InitiateStripe(context.Background(), "user-1", "b-1")
	if err != nil {
		t.Fatalf("InitiateStripe failed: %v", err)
	}
	if result.ClientSecret != "pi_test_secret" {
		t.Errorf("unexpected client secret %q", result.ClientSecret)
	}

	p, _ := payments.GetByID(result.PaymentID)
	if p == nil {
		t.Fatal("payment record not created")
	}
	if p.Status != models.PaymentStatusPending || p.Method != models.PaymentMethodStripe {
		t.Errorf("unexpected payment shape: %s/%s", p.Status, p.Method)
	}
	if p.Amount != 60000 {
		t.Errorf("amount must come from the booking, got %.2f", p.Amount)
	}
	if p.StripePaymentIntentID != "pi_test" {
		t.Errorf("intent id not recorded, got %q", p.StripePaymentIntentID)
	}
	if gateway.created != 1 {
		t.Errorf("expected one intent created, got %d", gateway.created)
	}
}

func TestInitiateStripeProviderFailureLeavesNoRecord(t *testing.T) {
	svc, bookings, payments, _, gateway, _ := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)
	gateway.createErr = errProviderDown

	_, err := svc.InitiateStripe(context.Background(), "user-1", "b-1")
	if utils.CodeOf(err) != "payment_init_failed" {
		t.Errorf("expected payment_init_failed, got %v", err)
	}
	if len(payments.payments) != 0 {
		t.Error("failed initiation must not leave a payment record")
	}
}

func TestInitiateStripeOwnership(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)

	if _, err := svc.InitiateStripe(context.Background(), "user-2", "b-1"); utils.CodeOf(err) != "not_found" {
		t.Errorf("stranger should get not_found, got %v", err)
	}
}

func TestInitiateConflicts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *models.Booking, payments *fakePaymentRepo)
	}{
		{
			"cancelled booking",
			func(b *models.Booking, _ *fakePaymentRepo) { b.Status = models.BookingStatusCancelled },
		},
		{
			"already paid booking",
			func(b *models.Booking, _ *fakePaymentRepo) { b.PaymentStatus = models.PaymentStatusCompleted },
		},
		{
			"processing payment in flight",
			func(b *models.Booking, payments *fakePaymentRepo) {
				payments.payments["p-0"] = &models.Payment{
					ID: "p-0", BookingID: b.ID, Status: models.PaymentStatusProcessing,
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, bookings, payments, _, _, _ := newTestPaymentService()
			b := payableBooking("b-1", "user-1", 60000)
			tt.setup(b, payments)
			bookings.bookings["b-1"] = b

			if _, err := svc.InitiateStripe(context.Background(), "user-1", "b-1"); utils.CodeOf(err) != "conflict" {
				t.Errorf("expected conflict, got %v", err)
			}
		})
	}
}

func TestInitiateStripeAllowsRetryAfterFailure(t *testing.T) {
	svc, bookings, payments, _, _, _ := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)
	payments.payments["p-0"] = &models.Payment{
		ID: "p-0", BookingID: "b-1", Status: models.PaymentStatusFailed,
	}

	if _, err := svc.InitiateStripe(context.Background(), "user-1", "b-1"); err != nil {
		t.Errorf("a failed attempt must not block a retry: %v", err)
	}
}

func TestInitiateMpesaPhoneValidation(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"valid kenyan number", "+254712345678", true},
		{"missing plus", "254712345678", false},
		{"wrong country code", "+255712345678", false},
		{"too short", "+25471234567", false},
		{"too long", "+2547123456789", false},
		{"letters", "+2547a2345678", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, bookings, _, _, _, _ := newTestPaymentService()
			bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)

			_, err := svc.InitiateMpesa(context.Background(), "user-1", "b-1", tt.phone, 60000)
			if tt.valid && err != nil {
				t.Errorf("expected success, got %v", err)
			}
			if !tt.valid && utils.CodeOf(err) != "invalid_argument" {
				t.Errorf("expected invalid_argument, got %v", err)
			}
		})
	}
}

func TestInitiateMpesaAmountTolerance(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		valid  bool
	}{
		{"exact amount", 60000, true},
		{"within tolerance below", 57100, true},
		{"exactly five percent off", 57000, true},
		{"beyond tolerance below", 56900, false},
		{"within tolerance above", 62900, true},
		{"beyond tolerance above", 63100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, bookings, _, _, _, _ := newTestPaymentService()
			bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)

			_, err := svc.InitiateMpesa(context.Background(), "user-1", "b-1", "+254712345678", tt.amount)
			if tt.valid && err != nil {
				t.Errorf("expected success, got %v", err)
			}
			if !tt.valid && utils.CodeOf(err) != "invalid_argument" {
				t.Errorf("expected invalid_argument, got %v", err)
			}
		})
	}
}

func TestInitiateMpesaRecordsProcessingPayment(t *testing.T) {
	svc, bookings, payments, _, _, pusher := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)

	result, err := svc.InitiateMpesa(context.Background(), "user-1", "b-1", "+254712345678", 60000)
	if err != nil {
		t.Fatalf("InitiateMpesa failed: %v", err)
	}
	if result.CheckoutRequestID != "ws_CO_test" {
		t.Errorf("unexpected checkout request id %q", result.CheckoutRequestID)
	}
	if pusher.lastRef != "SH-20260314093000-ABC123" {
		t.Errorf("expected booking number as account reference, got %q", pusher.lastRef)
	}

	p, _ := payments.GetByID(result.PaymentID)
	if p == nil {
		t.Fatal("payment record not created")
	}
	if p.Status != models.PaymentStatusProcessing {
		t.Errorf("expected processing status, got %s", p.Status)
	}
	if p.MpesaCheckoutRequestID != "ws_CO_test" {
		t.Errorf("checkout request id not recorded, got %q", p.MpesaCheckoutRequestID)
	}
}

func TestInitiateMpesaPushFailureLeavesNoRecord(t *testing.T) {
	svc, bookings, payments, _, _, pusher := newTestPaymentService()
	bookings.bookings["b-1"] = payableBooking("b-1", "user-1", 60000)
	pusher.err = errProviderDown

	_, err := svc.InitiateMpesa(context.Background(), "user-1", "b-1", "+254712345678", 60000)
	if utils.CodeOf(err) != "payment_init_failed" {
		t.Errorf("expected payment_init_failed, got %v", err)
	}
	if len(payments.payments) != 0 {
		t.Error("rejected push must not leave a payment record")
	}
}
