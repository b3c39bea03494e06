package booking

import (
	"strings"
	"testing"
	"time"

	"safarihub/models"
	"safarihub/utils"
)

func activeCart(userID string) *models.Cart {
	return &models.Cart{
		ID:     "cart-1",
		UserID: userID,
		Items: []models.CartItem{
			{
				ItemID:      "item-1",
				ServiceID:   "safari-1",
				ServiceName: "Masai Mara Game Drive",
				Category:    "safari",
				UnitPrice:   18000,
				Quantity:    2,
				Guests:      1,
				LineTotal:   36000,
			},
			{
				ItemID:      "item-2",
				ServiceID:   "stay-1",
				ServiceName: "Savannah Lodge Night",
				Category:    "accommodation",
				UnitPrice:   12000,
				Quantity:    2,
				Guests:      1,
				LineTotal:   24000,
			},
		},
		TotalAmount: 60000,
		Status:      models.CartStatusActive,
	}
}

func testContact() models.ContactInfo {
	return models.ContactInfo{Name: "Amina Odhiambo", Email: "amina@example.com", Phone: "+254712345678"}
}

func TestCreateFromCartSnapshotsItems(t *testing.T) {
	svc, repo, carts, _ := newTestBookingService()
	carts.cart = activeCart("user-1")

	b, err := svc.CreateFromCart("user-1", testContact(), "window seat please")
	if err != nil {
		t.Fatalf("CreateFromCart failed: %v", err)
	}

	if b.TotalAmount != 60000 {
		t.Errorf("expected total 60000, got %.2f", b.TotalAmount)
	}
	if len(b.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(b.Items))
	}
	if b.Status != models.BookingStatusConfirmed || b.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("unexpected initial statuses: %s/%s", b.Status, b.PaymentStatus)
	}
	if b.Currency != "KES" {
		t.Errorf("expected KES currency, got %s", b.Currency)
	}
	if !strings.HasPrefix(b.BookingNumber, "SH-") {
		t.Errorf("booking number %q missing prefix", b.BookingNumber)
	}

	// The snapshot must not follow later catalog changes.
	svc.Catalog.(*fakeCatalog).services["safari-1"].Price = 99999
	stored, _ := repo.GetByID(b.ID)
	if stored.Items[0].UnitPrice != 18000 || stored.TotalAmount != 60000 {
		t.Errorf("snapshot followed a catalog change: %.2f / %.2f",
			stored.Items[0].UnitPrice, stored.TotalAmount)
	}

	// The cart stays active until a payment completes.
	if carts.cart.Status != models.CartStatusActive {
		t.Errorf("cart should remain active after checkout, got %s", carts.cart.Status)
	}
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	svc, _, _, _ := newTestBookingService()

	_, err := svc.CreateFromCart("user-1", testContact(), "")
	if utils.CodeOf(err) != "invalid_argument" {
		t.Errorf("expected invalid_argument for empty cart, got %v", err)
	}
}

func TestCreateFromCartContactValidation(t *testing.T) {
	svc, _, carts, _ := newTestBookingService()
	carts.cart = activeCart("user-1")

	tests := []struct {
		name    string
		contact models.ContactInfo
	}{
		{"missing name", models.ContactInfo{Email: "a@example.com"}},
		{"missing email", models.ContactInfo{Name: "Amina"}},
		{"blank name", models.ContactInfo{Name: "   ", Email: "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFromCart("user-1", tt.contact, "")
			if utils.CodeOf(err) != "invalid_argument" {
				t.Errorf("expected invalid_argument, got %v", err)
			}
		})
	}
}

func TestCreateFromSingleService(t *testing.T) {
	svc, _, _, _ := newTestBookingService()

	start := time.Now().Add(72 * time.Hour)
	end := start.Add(48 * time.Hour)

	b, err := svc.CreateFromSingleService("user-1", SingleServiceInput{
		ServiceID:    "safari-1",
		StartDate:    start,
		EndDate:      end,
		Participants: 3,
		Contact:      testContact(),
	})
	if err != nil {
		t.Fatalf("CreateFromSingleService failed: %v", err)
	}

	if len(b.Items) != 1 {
		t.Fatalf("expected single item, got %d", len(b.Items))
	}
	if want := 18000.0 * 3; b.TotalAmount != want {
		t.Errorf("expected total %.2f, got %.2f", want, b.TotalAmount)
	}
	if b.Items[0].Guests != 3 || b.Items[0].Quantity != 1 {
		t.Errorf("unexpected item shape: %+v", b.Items[0])
	}
}

func TestCreateFromSingleServiceDateConflict(t *testing.T) {
	svc, repo, _, _ := newTestBookingService()
	repo.overlapping = 1

	start := time.Now().Add(72 * time.Hour)
	_, err := svc.CreateFromSingleService("user-1", SingleServiceInput{
		ServiceID:    "safari-1",
		StartDate:    start,
		EndDate:      start.Add(24 * time.Hour),
		Participants: 1,
		Contact:      testContact(),
	})
	if utils.CodeOf(err) != "conflict" {
		t.Errorf("expected conflict for overlapping dates, got %v", err)
	}
}

func TestCreateFromSingleServiceValidation(t *testing.T) {
	svc, _, _, _ := newTestBookingService()
	start := time.Now().Add(72 * time.Hour)

	tests := []struct {
		name     string
		input    SingleServiceInput
		wantCode string
	}{
		{
			"zero participants",
			SingleServiceInput{ServiceID: "safari-1", StartDate: start, EndDate: start.Add(time.Hour), Participants: 0, Contact: testContact()},
			"invalid_argument",
		},
		{
			"end before start",
			SingleServiceInput{ServiceID: "safari-1", StartDate: start, EndDate: start.Add(-time.Hour), Participants: 1, Contact: testContact()},
			"invalid_argument",
		},
		{
			"unknown service",
			SingleServiceInput{ServiceID: "nope", StartDate: start, EndDate: start.Add(time.Hour), Participants: 1, Contact: testContact()},
			"not_found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFromSingleService("user-1", tt.input)
			if utils.CodeOf(err) != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestGetByIDVisibility(t *testing.T) {
	svc, repo, _, _ := newTestBookingService()
	repo.bookings["b-1"] = &models.Booking{ID: "b-1", UserID: "user-1"}

	if _, err := svc.GetByID("user-1", false, "b-1"); err != nil {
		t.Errorf("owner should see booking: %v", err)
	}
	if _, err := svc.GetByID("user-2", true, "b-1"); err != nil {
		t.Errorf("admin should see booking: %v", err)
	}
	if _, err := svc.GetByID("user-2", false, "b-1"); utils.CodeOf(err) != "not_found" {
		t.Errorf("stranger should get not_found, got %v", err)
	}
}

func TestGenerateBookingNumberShape(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	n := GenerateBookingNumber(now)
	if !strings.HasPrefix(n, "SH-20260314093000-") {
		t.Errorf("unexpected booking number %q", n)
	}
	if n == GenerateBookingNumber(now) {
		t.Error("booking numbers for the same instant must differ")
	}
}
