package cart

import (
	"fmt"
	"time"

	cartRepo "safarihub/database/repository/cart"
	"safarihub/models"
	"safarihub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mutateAttempts bounds the optimistic-concurrency retry loop. Concurrent
// writes to the same cart are rare (single user), so conflicts resolve fast.
const mutateAttempts = 3

// recompute rewrites every line total and the cart total from the current
// item set. Totals are never carried over from a previous state.
func recompute(c *models.Cart) {
	total := 0.0
	for i := range c.Items {
		c.Items[i].LineTotal = c.Items[i].UnitPrice * float64(c.Items[i].Quantity) * float64(c.Items[i].Guests)
		total += c.Items[i].LineTotal
	}
	c.TotalAmount = total
}

// mutate loads the user's active cart, applies fn, recomputes totals and
// persists under the version read. A lost race re-reads and retries.
func (s *DefaultCartService) mutate(userID string, fn func(c *models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		c, err := s.Repo.GetActiveByUserID(userID)
		if err != nil {
			return nil, err
		}
		created := false
		if c == nil {
			c = &models.Cart{
				ID:        uuid.New().String(),
				UserID:    userID,
				Items:     []models.CartItem{},
				Status:    models.CartStatusActive,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			created = true
		}

		if err := fn(c); err != nil {
			return nil, err
		}
		recompute(c)
		c.UpdatedAt = time.Now()

		if created {
			if err := s.Repo.Create(c); err != nil {
				return nil, err
			}
			return c, nil
		}
		err = s.Repo.UpdateVersioned(c)
		if err == cartRepo.ErrVersionConflict {
			s.Logger.Debug("cart version conflict, retrying", zap.String("userID", userID))
			continue
		}
		if err != nil {
			return nil, err
		}
		c.Version++
		return c, nil
	}
	return nil, fmt.Errorf("cart update for user %s kept losing concurrent writes", userID)
}

// AddItem adds a service to the user's active cart, creating the cart if
// needed. An item referencing the same service is merged: quantity adds up,
// guests are replaced, and the unit price is refreshed from the catalog.
func (s *DefaultCartService) AddItem(userID string, input AddItemInput) (*models.Cart, error) {
	if input.Quantity < 1 || input.Guests < 1 {
		return nil, utils.NewInvalidArgument("quantity and guests must be at least 1")
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

	return s.mutate(userID, func(c *models.Cart) error {
		for i := range c.Items {
			if c.Items[i].ServiceID == input.ServiceID {
				c.Items[i].Quantity += input.Quantity
				c.Items[i].Guests = input.Guests
				c.Items[i].UnitPrice = svc.Price
				if input.StartDate != nil {
					c.Items[i].StartDate = input.StartDate
				}
				if input.EndDate != nil {
					c.Items[i].EndDate = input.EndDate
				}
				if input.SpecialRequests != "" {
					c.Items[i].SpecialRequests = input.SpecialRequests
				}
				return nil
			}
		}
		c.Items = append(c.Items, models.CartItem{
			ItemID:          uuid.New().String(),
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Category:        svc.Category,
			ProviderID:      svc.Provider.ID,
			ProviderName:    svc.Provider.Name,
			UnitPrice:       svc.Price,
			Quantity:        input.Quantity,
			Guests:          input.Guests,
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			SpecialRequests: input.SpecialRequests,
		})
		return nil
	})
}

// UpdateItem changes quantity, guests, dates or notes on one cart line and
// recomputes totals unconditionally.
func (s *DefaultCartService) UpdateItem(userID, itemID string, input UpdateItemInput) (*models.Cart, error) {
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, utils.NewInvalidArgument("quantity must be at least 1")
	}
	if input.Guests != nil && *input.Guests < 1 {
		return nil, utils.NewInvalidArgument("guests must be at least 1")
	}

	return s.mutate(userID, func(c *models.Cart) error {
		for i := range c.Items {
			if c.Items[i].ItemID != itemID {
				continue
			}
			if input.Quantity != nil {
				c.Items[i].Quantity = *input.Quantity
			}
			if input.Guests != nil {
				c.Items[i].Guests = *input.Guests
			}
			if input.StartDate != nil {
				c.Items[i].StartDate = input.StartDate
			}
			if input.EndDate != nil {
				c.Items[i].EndDate = input.EndDate
			}
			if input.SpecialRequests != nil {
				c.Items[i].SpecialRequests = *input.SpecialRequests
			}
			return nil
		}
		return utils.NewNotFound(fmt.Sprintf("cart item %s not found", itemID))
	})
}

// RemoveItem removes one line from the active cart.
func (s *DefaultCartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	return s.mutate(userID, func(c *models.Cart) error {
		for i := range c.Items {
			if c.Items[i].ItemID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
		return utils.NewNotFound(fmt.Sprintf("cart item %s not found", itemID))
	})
}

// Clear empties the active cart. The cart entity itself persists empty.
func (s *DefaultCartService) Clear(userID string) (*models.Cart, error) {
	return s.mutate(userID, func(c *models.Cart) error {
		c.Items = []models.CartItem{}
		return nil
	})
}

// GetActive returns the user's active cart, or an empty unsaved cart when
// none exists. Reading never creates a cart.
func (s *DefaultCartService) GetActive(userID string) (*models.Cart, error) {
	c, err := s.Repo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{},
			Status: models.CartStatusActive,
		}, nil
	}
	return c, nil
}
