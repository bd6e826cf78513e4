// Package database maps the API's operations onto a MongoDB document store:
// query shaping, sort/limit/filter semantics, and multi-document batching
// live here. Handlers never talk to the driver directly.
package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidID marks a malformed document identifier supplied to an
// id-based operation. Handlers surface it like any other store failure.
var ErrInvalidID = errors.New("invalid document id")

// FindOptions narrows the store's query options to what this API uses.
// A zero value means an unsorted, unlimited query with the driver's
// default batch size.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
	BatchSize int32
}

// ChangeResult reports how many documents an update touched. Zero counts
// signal "succeeded with zero effect", never an error; with multi-document
// updates a matched count above the modified count means partial
// application.
type ChangeResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the subset of document-store primitives the API needs.
// Filters are bson.M restricted to field equality, $gt, and $in; updates
// are $set documents. The production implementation wraps a mongo driver
// collection, the in-memory one in testing.go backs the package tests.
type Collection interface {
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
	Find(ctx context.Context, filter bson.M, opts FindOptions, results interface{}) error
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error)
	UpdateMany(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error)
	DeleteMany(ctx context.Context, filter bson.M) (*DeleteResult, error)
}

// mongoCollection adapts a driver collection to the Collection contract.
type mongoCollection struct {
	coll *mongo.Collection
}

func (mc *mongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	result, err := mc.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert document: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	return id, nil
}

func (mc *mongoCollection) Find(ctx context.Context, filter bson.M, opts FindOptions, results interface{}) error {
	findOpts := options.Find()
	if opts.SortField != "" {
		order := 1
		if opts.SortDesc {
			order = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: order}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.BatchSize > 0 {
		findOpts.SetBatchSize(opts.BatchSize)
	}

	cursor, err := mc.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return fmt.Errorf("failed to query collection: %w", err)
	}

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}

	return nil
}

func (mc *mongoCollection) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error) {
	result, err := mc.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return &ChangeResult{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

func (mc *mongoCollection) UpdateMany(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error) {
	result, err := mc.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update documents: %w", err)
	}

	return &ChangeResult{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

func (mc *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	result, err := mc.coll.DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}

	return &DeleteResult{DeletedCount: result.DeletedCount}, nil
}

func (mc *mongoCollection) DeleteMany(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	result, err := mc.coll.DeleteMany(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to delete documents: %w", err)
	}

	return &DeleteResult{DeletedCount: result.DeletedCount}, nil
}

// parseObjectIDs converts hex id strings into ObjectIDs for $in filters.
// Any malformed id fails the whole call with ErrInvalidID.
func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}

	return objectIDs, nil
}
