package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"safarihub/database"
	"safarihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database("safarihub").Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new booking record.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByNumber retrieves a booking by its human-shareable reference.
func (r *MongoBookingRepo) GetByNumber(number string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"booking_number": number}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", number, err)
	}
	return &booking, nil
}

// SetPaymentOutcome records the reconciled payment status and the resulting
// booking status. The payment status always lands for the audit trail; the
// booking status write never matches a cancelled booking, so a late success
// callback cannot resurrect one.
func (r *MongoBookingRepo) SetPaymentOutcome(bookingID, paymentStatus, bookingStatus string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"payment_status": paymentStatus,
		"updated_at":     time.Now(),
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating booking %s payment outcome: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}

	if bookingStatus != "" {
		filter := bson.M{"id": bookingID, "status": bson.M{"$ne": models.BookingStatusCancelled}}
		update := bson.M{"$set": bson.M{"status": bookingStatus, "updated_at": time.Now()}}
		if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("error updating booking %s status: %w", bookingID, err)
		}
	}
	return nil
}

// SetCancelled records the cancellation block, conditional on the booking not
// already being cancelled.
func (r *MongoBookingRepo) SetCancelled(bookingID string, c models.Cancellation) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": bson.M{"$ne": models.BookingStatusCancelled}}
	update := bson.M{"$set": bson.M{
		"status":       models.BookingStatusCancelled,
		"cancellation": c,
		"updated_at":   time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error cancelling booking %s: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}
