package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"
)

// EnsureIndexes creates the unique and sort indexes the stores rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		profilesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "handle", Value: 1}}, Options: unique},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", name, err)
		}
	}
	return nil
}

// decodeOne maps the driver's no-documents error to ErrNotFound.
func decodeOne(res *mongo.SingleResult, v interface{}) error {
	err := res.Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// writeErr maps duplicate key violations to ErrDuplicate.
func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

// exists reports whether a document matching filter is present.
func exists(ctx context.Context, col *mongo.Collection, filter interface{}) (bool, error) {
	n, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo count %s: %w", col.Name(), err)
	}
	return n > 0, nil
}
