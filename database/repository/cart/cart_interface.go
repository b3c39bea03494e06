package cartRepo

import (
	"errors"

	"safarihub/models"
)

// ErrVersionConflict signals that a versioned cart write lost a concurrent race.
var ErrVersionConflict = errors.New("cart was modified concurrently")

// CartRepository defines methods for cart data access. Every write replaces
// the full item set and total together, so the two can never disagree.
type CartRepository interface {
	// GetActiveByUserID retrieves the user's active cart. Returns (nil, nil) when none exists.
	GetActiveByUserID(userID string) (*models.Cart, error)
	// Create inserts a new cart record.
	Create(cart *models.Cart) error
	// UpdateVersioned writes items and total, guarded by the cart's version.
	// Returns ErrVersionConflict when the stored version has moved on.
	UpdateVersioned(cart *models.Cart) error
	// ConvertActiveByUserID flips the user's active cart to converted.
	ConvertActiveByUserID(userID string) error
}
