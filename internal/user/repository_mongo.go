package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/intellibazar/intellibazar/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(database.UsersCollection)}
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}
	return r.findOne(ctx, bson.M{"email": pattern})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (User, error) {
	var u User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *MongoRepository) Create(ctx context.Context, u User) (User, error) {
	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}
