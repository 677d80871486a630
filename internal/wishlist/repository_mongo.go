package wishlist

import (
	"context"
	"fmt"

	"github.com/intellibazar/intellibazar/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository does not implement BulkMover: standalone deployments have
// no multi-document transactions, so moves fall back to the per-item path.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.WishlistCollection)}
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	out := make([]Item, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Add(ctx context.Context, item Item) (Item, error) {
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Item{}, ErrAlreadyInWishlist
		}
		return Item{}, fmt.Errorf("failed to insert wishlist item: %w", err)
	}
	return item, nil
}

func (r *MongoRepository) RemoveByName(ctx context.Context, userID, productName string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "product_name": productName})
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}
