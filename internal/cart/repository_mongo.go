package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.CartCollection)}
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	out := make([]Item, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return out, nil
}

// Add upserts on the (user_id, product_name) unique index. Two concurrent
// first adds can race on the insert; the loser retries as an update.
func (r *MongoRepository) Add(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	filter := bson.M{"user_id": item.UserID, "product_name": item.ProductName}
	set := bson.M{
		"product_price":    item.ProductPrice,
		"unit_price":       item.UnitPrice,
		"product_image":    item.ProductImage,
		"product_category": item.ProductCategory,
		"updated_at":       item.UpdatedAt,
	}
	update := bson.M{
		"$inc":         bson.M{"quantity": item.Quantity},
		"$set":         set,
		"$setOnInsert": bson.M{"_id": item.ID, "created_at": item.CreatedAt},
	}
	if item.ProductRating != nil {
		set["product_rating"] = *item.ProductRating
	} else {
		update["$unset"] = bson.M{"product_rating": ""}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out Item
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if mongo.IsDuplicateKeyError(err) {
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) UpdateQuantity(ctx context.Context, userID, id string, qty int) (Item, error) {
	update := bson.M{"$set": bson.M{"quantity": qty, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out Item
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "user_id": userID}, update, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("failed to update cart item: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) Remove(ctx context.Context, userID, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
