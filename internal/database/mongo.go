package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the mongo repositories.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	CartCollection     = "cart_items"
	WishlistCollection = "wishlist_items"
	OrdersCollection   = "orders"
)

func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}

// EnsureIndexes creates the unique keys the repositories rely on for
// (user, productName) coalescing and duplicate detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	perItem := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		ProductsCollection: {{Keys: bson.D{{Key: "category", Value: 1}}}},
		CartCollection:     {perItem},
		WishlistCollection: {perItem},
		OrdersCollection:   {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
