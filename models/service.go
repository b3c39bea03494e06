package models

import "time"

// Service status values. Only an active service can be added to a cart
// or booked directly.
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
	ServiceStatusSoldOut  = "soldout"
)

// ServiceProvider identifies the business offering a tour service.
type ServiceProvider struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// TourService is a bookable catalog entry (safari, stay, excursion...).
type TourService struct {
	ID          string          `bson:"id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Category    string          `bson:"category" json:"category"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Location    string          `bson:"location,omitempty" json:"location,omitempty"`
	Provider    ServiceProvider `bson:"provider" json:"provider"`
	Price       float64         `bson:"price" json:"price"`           // Current selling price per unit per guest
	BasePrice   float64         `bson:"base_price" json:"base_price"` // Undiscounted price, for display
	ImageID     string          `bson:"image_id,omitempty" json:"image_id,omitempty"`
	Status      string          `bson:"status" json:"status"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}

// Bookable reports whether the service can be added to a cart or booked.
func (s *TourService) Bookable() bool {
	return s.Status == ServiceStatusActive
}
