// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"fmt"
	"time"

	"safarihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByUserID retrieves all bookings of a user, newest first.
func (r *MongoBookingRepo) ListByUserID(userID string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// CountOverlapping counts non-cancelled bookings carrying an item on the given
// service whose date range overlaps [start, end].
func (r *MongoBookingRepo) CountOverlapping(serviceID string, start, end time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status": bson.M{"$ne": models.BookingStatusCancelled},
		"items": bson.M{"$elemMatch": bson.M{
			"service_id": serviceID,
			"start_date": bson.M{"$lte": end},
			"end_date":   bson.M{"$gte": start},
		}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping bookings for service %s: %w", serviceID, err)
	}
	return count, nil
}
