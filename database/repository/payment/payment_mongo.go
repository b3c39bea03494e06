package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"safarihub/database"
	"safarihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo creates a new instance of PaymentRepository using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	coll := database.MongoClient.Database("safarihub").Collection("payments")
	repo := &MongoPaymentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPaymentRepo) findOne(filter bson.M) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctx, filter).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching payment: %w", err)
	}
	return &payment, nil
}

// Create inserts a new payment record.
func (r *MongoPaymentRepo) Create(payment *models.Payment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by its unique ID.
func (r *MongoPaymentRepo) GetByID(id string) (*models.Payment, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByStripeIntentID retrieves a payment by its Stripe PaymentIntent ID.
func (r *MongoPaymentRepo) GetByStripeIntentID(intentID string) (*models.Payment, error) {
	return r.findOne(bson.M{"stripe_payment_intent_id": intentID})
}

// GetByCheckoutRequestID retrieves a payment by its M-Pesa correlation ID.
func (r *MongoPaymentRepo) GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
	return r.findOne(bson.M{"mpesa_checkout_request_id": checkoutRequestID})
}

// GetLatestByBookingID retrieves the most recent payment for a booking.
func (r *MongoPaymentRepo) GetLatestByBookingID(bookingID string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var payment models.Payment
	err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}, opts).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching latest payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

// HasSettledOrInFlight reports whether the booking already carries a
// processing or completed payment.
func (r *MongoPaymentRepo) HasSettledOrInFlight(bookingID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"status":     bson.M{"$in": []string{models.PaymentStatusProcessing, models.PaymentStatusCompleted}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking in-flight payments for booking %s: %w", bookingID, err)
	}
	return count > 0, nil
}

// MarkCompleted transitions a non-terminal payment to completed.
func (r *MongoPaymentRepo) MarkCompleted(id, transactionID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": []string{models.PaymentStatusPending, models.PaymentStatusProcessing}},
	}
	update := bson.M{"$set": bson.M{
		"status":         models.PaymentStatusCompleted,
		"transaction_id": transactionID,
		"updated_at":     time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error completing payment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkFailed transitions a non-terminal payment to failed.
func (r *MongoPaymentRepo) MarkFailed(id string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": []string{models.PaymentStatusPending, models.PaymentStatusProcessing}},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.PaymentStatusFailed,
		"updated_at": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error failing payment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// SetRefundStatus records refund eligibility on a payment.
func (r *MongoPaymentRepo) SetRefundStatus(id, refundStatus string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"refund_status": refundStatus, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error setting refund status on payment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment %s not found", id)
	}
	return nil
}
