package cart

import (
	"testing"

	cartRepo "safarihub/database/repository/cart"
	"safarihub/models"
	"safarihub/utils"

	"go.uber.org/zap"
)

// fakeCartRepo keeps a single cart in memory and can simulate version races.
type fakeCartRepo struct {
	cart      *models.Cart
	conflicts int // UpdateVersioned fails this many times before succeeding
	updates   int
}

func (f *fakeCartRepo) GetActiveByUserID(userID string) (*models.Cart, error) {
	if f.cart == nil || f.cart.UserID != userID || f.cart.Status != models.CartStatusActive {
		return nil, nil
	}
	clone := *f.cart
	clone.Items = append([]models.CartItem(nil), f.cart.Items...)
	return &clone, nil
}

func (f *fakeCartRepo) Create(cart *models.Cart) error {
	f.cart = cart
	return nil
}

func (f *fakeCartRepo) UpdateVersioned(cart *models.Cart) error {
	f.updates++
	if f.conflicts > 0 {
		f.conflicts--
		return cartRepo.ErrVersionConflict
	}
	stored := *cart
	stored.Version++
	f.cart = &stored
	return nil
}

func (f *fakeCartRepo) ConvertActiveByUserID(userID string) error {
	if f.cart != nil && f.cart.UserID == userID {
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

func testCatalog() *fakeCatalog {
	return &fakeCatalog{services: map[string]*models.TourService{
		"safari-1": {
			ID:       "safari-1",
			Name:     "Masai Mara Game Drive",
			Category: "safari",
			Price:    18000,
			Status:   models.ServiceStatusActive,
		},
		"stay-1": {
			ID:       "stay-1",
			Name:     "Savannah Lodge Night",
			Category: "accommodation",
			Price:    12000,
			Status:   models.ServiceStatusActive,
		},
		"sold-out": {
			ID:     "sold-out",
			Name:   "Balloon Ride",
			Price:  25000,
			Status: models.ServiceStatusSoldOut,
		},
	}}
}

func newTestCartService(repo *fakeCartRepo, catalog *fakeCatalog) *DefaultCartService {
	return &DefaultCartService{Repo: repo, Catalog: catalog, Logger: zap.NewNop()}
}

func TestAddItemTotals(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	cart, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 2, Guests: 1})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if cart.TotalAmount != 36000 {
		t.Errorf("expected total 36000, got %.2f", cart.TotalAmount)
	}

	cart, err = svc.AddItem("user-1", AddItemInput{ServiceID: "stay-1", Quantity: 2, Guests: 1})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if cart.TotalAmount != 60000 {
		t.Errorf("expected total 60000, got %.2f", cart.TotalAmount)
	}

	itemID := ""
	for _, it := range cart.Items {
		if it.ServiceID == "stay-1" {
			itemID = it.ItemID
		}
	}
	cart, err = svc.RemoveItem("user-1", itemID)
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if cart.TotalAmount != 36000 {
		t.Errorf("expected total 36000 after removal, got %.2f", cart.TotalAmount)
	}

	// Total must always equal the sum of line totals.
	sum := 0.0
	for _, it := range cart.Items {
		sum += it.LineTotal
	}
	if cart.TotalAmount != sum {
		t.Errorf("total %.2f diverged from line sum %.2f", cart.TotalAmount, sum)
	}
}

func TestAddItemMergesSameService(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	if _, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 1, Guests: 2}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	cart, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 2, Guests: 4})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected merged single line, got %d items", len(cart.Items))
	}
	it := cart.Items[0]
	if it.Quantity != 3 {
		t.Errorf("expected quantity 3 after merge, got %d", it.Quantity)
	}
	if it.Guests != 4 {
		t.Errorf("expected guests replaced with 4, got %d", it.Guests)
	}
	if want := 18000.0 * 3 * 4; it.LineTotal != want {
		t.Errorf("expected line total %.2f, got %.2f", want, it.LineTotal)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestCartService(&fakeCartRepo{}, testCatalog())

	tests := []struct {
		name     string
		input    AddItemInput
		wantCode string
	}{
		{"zero quantity", AddItemInput{ServiceID: "safari-1", Quantity: 0, Guests: 1}, "invalid_argument"},
		{"zero guests", AddItemInput{ServiceID: "safari-1", Quantity: 1, Guests: 0}, "invalid_argument"},
		{"unknown service", AddItemInput{ServiceID: "nope", Quantity: 1, Guests: 1}, "not_found"},
		{"sold out service", AddItemInput{ServiceID: "sold-out", Quantity: 1, Guests: 1}, "conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem("user-1", tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := utils.CodeOf(err); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	if _, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 1, Guests: 1}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	qty := 2
	_, err := svc.UpdateItem("user-1", "missing-item", UpdateItemInput{Quantity: &qty})
	if utils.CodeOf(err) != "not_found" {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	if _, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 1, Guests: 1}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	repo.conflicts = 2
	cart, err := svc.AddItem("user-1", AddItemInput{ServiceID: "stay-1", Quantity: 1, Guests: 1})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(cart.Items) != 2 {
		t.Errorf("expected 2 items after retried add, got %d", len(cart.Items))
	}
	if repo.updates != 3 {
		t.Errorf("expected 3 update attempts, got %d", repo.updates)
	}
}

func TestMutateGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	if _, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 1, Guests: 1}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	repo.conflicts = 10
	if _, err := svc.Clear("user-1"); err == nil {
		t.Error("expected error after exhausting retries")
	}
}

func TestGetActiveReturnsEmptyCartWithoutCreating(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	cart, err := svc.GetActive("user-1")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Errorf("expected empty cart, got %+v", cart)
	}
	if repo.cart != nil {
		t.Error("GetActive must not persist a cart")
	}
}

func TestClearKeepsCartEntity(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newTestCartService(repo, testCatalog())

	if _, err := svc.AddItem("user-1", AddItemInput{ServiceID: "safari-1", Quantity: 2, Guests: 2}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	cart, err := svc.Clear("user-1")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Errorf("expected cleared cart, got %d items total %.2f", len(cart.Items), cart.TotalAmount)
	}
	if repo.cart == nil || repo.cart.Status != models.CartStatusActive {
		t.Error("cleared cart should remain stored and active")
	}
}
