package models

import "time"

// Booking status values.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status values shared by Booking.PaymentStatus and Payment.Status.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

// ContactInfo is the contact block captured at checkout.
type ContactInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// BookingItem is a snapshot of a cart line at booking time. Catalog price
// changes after creation never reach an existing booking.
type BookingItem struct {
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

// Cancellation records who cancelled a booking and the computed refund.
type Cancellation struct {
	CancelledBy  string    `bson:"cancelled_by" json:"cancelled_by"`
	CancelledAt  time.Time `bson:"cancelled_at" json:"cancelled_at"`
	Reason       string    `bson:"reason,omitempty" json:"reason,omitempty"`
	RefundAmount float64   `bson:"refund_amount" json:"refund_amount"`
}

// Booking is an immutable purchase snapshot. Only Status, PaymentStatus and
// Cancellation mutate after creation.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	BookingNumber string        `bson:"booking_number" json:"booking_number"`
	UserID        string        `bson:"user_id" json:"user_id"`
	Items         []BookingItem `bson:"items" json:"items"`
	ContactInfo   ContactInfo   `bson:"contact_info" json:"contact_info"`
	TotalAmount   float64       `bson:"total_amount" json:"total_amount"`
	Currency      string        `bson:"currency" json:"currency"`
	Status        string        `bson:"status" json:"status"`
	PaymentStatus string        `bson:"payment_status" json:"payment_status"`
	Notes         string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Cancellation  *Cancellation `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// StartDate returns the earliest item start date, or nil when no item
// carries one.
func (b *Booking) StartDate() *time.Time {
	var earliest *time.Time
	for i := range b.Items {
		sd := b.Items[i].StartDate
		if sd == nil {
			continue
		}
		if earliest == nil || sd.Before(*earliest) {
			earliest = sd
		}
	}
	return earliest
}
