package events

import "safarihub/models"

// Publisher emits booking/payment lifecycle events for downstream consumers
// (provider settlement, analytics). Publishing is best effort; request paths
// never block on it.
type Publisher interface {
	Publish(event models.BookingEvent) error
	Close()
}
