package cartRepo

import (
	"context"
	"fmt"
	"time"

	"safarihub/database"
	"safarihub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCartRepo implements CartRepository using MongoDB.
type MongoCartRepo struct {
	coll *mongo.Collection
}

// NewMongoCartRepo creates a new instance of CartRepository using MongoDB.
func NewMongoCartRepo() CartRepository {
	coll := database.MongoClient.Database("safarihub").Collection("carts")
	repo := &MongoCartRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetActiveByUserID retrieves the user's active cart.
func (r *MongoCartRepo) GetActiveByUserID(userID string) (*models.Cart, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var cart models.Cart
	filter := bson.M{"user_id": userID, "status": models.CartStatusActive}
	err := r.coll.FindOne(ctx, filter).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching active cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Create inserts a new cart record.
func (r *MongoCartRepo) Create(cart *models.Cart) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, cart); err != nil {
		return fmt.Errorf("error creating cart: %w", err)
	}
	return nil
}

// UpdateVersioned writes items and total atomically, guarded by the version
// the caller read. A non-matching version means a concurrent writer won.
func (r *MongoCartRepo) UpdateVersioned(cart *models.Cart) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": cart.ID, "version": cart.Version}
	update := bson.M{
		"$set": bson.M{
			"items":        cart.Items,
			"total_amount": cart.TotalAmount,
			"updated_at":   time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating cart %s: %w", cart.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// ConvertActiveByUserID flips the user's active cart to converted.
func (r *MongoCartRepo) ConvertActiveByUserID(userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "status": models.CartStatusActive}
	update := bson.M{"$set": bson.M{"status": models.CartStatusConverted, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error converting cart for user %s: %w", userID, err)
	}
	return nil
}
