package order

import (
	"context"
	"fmt"

	"github.com/intellibazar/intellibazar/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.OrdersCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, o Order) (Order, error) {
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	out := make([]Order, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return out, nil
}
