package models

import "time"

// Cart status values.
const (
	CartStatusActive    = "active"
	CartStatusConverted = "converted"
)

// CartItem is one line in a user's active cart. LineTotal is always
// UnitPrice * Quantity * Guests and is recomputed on every mutation.
type CartItem struct {
	ItemID          string     `bson:"item_id" json:"item_id"`
	ServiceID       string     `bson:"service_id" json:"service_id"`
	ServiceName     string     `bson:"service_name" json:"service_name"`
	Category        string     `bson:"category" json:"category"`
	ProviderID      string     `bson:"provider_id" json:"provider_id"`
	ProviderName    string     `bson:"provider_name" json:"provider_name"`
	UnitPrice       float64    `bson:"unit_price" json:"unit_price"`
	Quantity        int        `bson:"quantity" json:"quantity"`
	Guests          int        `bson:"guests" json:"guests"`
	StartDate       *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate         *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	SpecialRequests string     `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	LineTotal       float64    `bson:"line_total" json:"line_total"`
}

// Cart is the per-user mutable collection of prospective bookings.
// TotalAmount is never settable independently; it is the sum of line totals.
// Version guards concurrent read-modify-write cycles on the same cart.
type Cart struct {
	ID          string     `bson:"id" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Items       []CartItem `bson:"items" json:"items"`
	TotalAmount float64    `bson:"total_amount" json:"total_amount"`
	Status      string     `bson:"status" json:"status"`
	Version     int        `bson:"version" json:"-"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
