package catalogRepo

import "safarihub/models"

// CatalogRepository defines methods for tour service data access.
// The booking core consumes price, status and provider identity only.
type CatalogRepository interface {
	// GetByID retrieves a service by its unique ID. Returns (nil, nil) when absent.
	GetByID(id string) (*models.TourService, error)
	// List retrieves services, optionally filtered by category.
	List(category string) ([]models.TourService, error)
	// Create inserts a new service record.
	Create(svc *models.TourService) error
	// Update modifies an existing service record.
	Update(svc *models.TourService) error
	// SetImage records the storage public ID of the service image.
	SetImage(id, publicID string) error
}
