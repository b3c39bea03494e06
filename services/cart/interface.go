package cart

import (
	"time"

	cartRepo "safarihub/database/repository/cart"
	catalogRepo "safarihub/database/repository/catalog"
	"safarihub/models"

	"go.uber.org/zap"
)

// AddItemInput carries a validated add-to-cart request.
type AddItemInput struct {
	ServiceID       string
	Quantity        int
	Guests          int
	StartDate       *time.Time
	EndDate         *time.Time
	SpecialRequests string
}

// UpdateItemInput carries a partial cart line update. Nil fields are left as is.
type UpdateItemInput struct {
	Quantity        *int
	Guests          *int
	StartDate       *time.Time
	EndDate         *time.Time
	SpecialRequests *string
}

// CartService defines the operations on a user's active cart.
type CartService interface {
	AddItem(userID string, input AddItemInput) (*models.Cart, error)
	UpdateItem(userID, itemID string, input UpdateItemInput) (*models.Cart, error)
	RemoveItem(userID, itemID string) (*models.Cart, error)
	Clear(userID string) (*models.Cart, error)
	GetActive(userID string) (*models.Cart, error)
}

// DefaultCartService implements CartService.
type DefaultCartService struct {
	Repo    cartRepo.CartRepository
	Catalog catalogRepo.CatalogRepository
	Logger  *zap.Logger
}
