package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/intellibazar/intellibazar/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.ProductsCollection)}
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.SellerID != "" {
		filter["seller_id"] = f.SellerID
	}
	if f.Query != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]Product, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Product, error) {
	var p Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) Create(ctx context.Context, p Product) (Product, error) {
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) Update(ctx context.Context, p Product) (Product, error) {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
