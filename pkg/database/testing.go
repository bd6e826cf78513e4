package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is an in-memory Collection used by the package tests and
// the handler tests. It implements the same find/insert/update/delete
// contract as the mongo-backed collection over the filter subset the API
// uses (equality, $gt, $in) and keeps documents in insertion order. Values
// compare as strings, which reproduces the store's lexicographic ordering
// of string-valued fields.
type MemoryCollection struct {
	mu   sync.Mutex
	docs []bson.M

	// FailWith, when set, makes every operation return this error. Tests
	// use it to simulate an unreachable store.
	FailWith error
}

// NewMemoryCollection returns an empty in-memory collection.
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{}
}

func (mc *MemoryCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.FailWith != nil {
		return primitive.NilObjectID, mc.FailWith
	}

	normalized, err := toDocument(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := normalized["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		normalized["_id"] = id
	}

	mc.docs = append(mc.docs, normalized)
	return id, nil
}

func (mc *MemoryCollection) Find(ctx context.Context, filter bson.M, opts FindOptions, results interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.FailWith != nil {
		return mc.FailWith
	}

	var matched []bson.M
	for _, doc := range mc.docs {
		if matchesFilter(doc, filter) {
			matched = append(matched, doc)
		}
	}

	if opts.SortField != "" {
		field := opts.SortField
		desc := opts.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			a := stringValue(matched[i][field])
			b := stringValue(matched[j][field])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return decodeDocuments(matched, results)
}

func (mc *MemoryCollection) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error) {
	return mc.update(filter, update, true)
}

func (mc *MemoryCollection) UpdateMany(ctx context.Context, filter bson.M, update bson.M) (*ChangeResult, error) {
	return mc.update(filter, update, false)
}

func (mc *MemoryCollection) update(filter bson.M, update bson.M, single bool) (*ChangeResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.FailWith != nil {
		return nil, mc.FailWith
	}

	set, ok := update["$set"].(bson.M)
	if !ok {
		return nil, errors.New("unsupported update document, expected $set")
	}

	result := &ChangeResult{}
	for _, doc := range mc.docs {
		if !matchesFilter(doc, filter) {
			continue
		}

		result.MatchedCount++
		changed := false
		for field, value := range set {
			if !reflect.DeepEqual(doc[field], value) {
				doc[field] = value
				changed = true
			}
		}
		if changed {
			result.ModifiedCount++
		}

		if single {
			break
		}
	}

	return result, nil
}

func (mc *MemoryCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	return mc.delete(filter, true)
}

func (mc *MemoryCollection) DeleteMany(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	return mc.delete(filter, false)
}

func (mc *MemoryCollection) delete(filter bson.M, single bool) (*DeleteResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.FailWith != nil {
		return nil, mc.FailWith
	}

	result := &DeleteResult{}
	var remaining []bson.M
	for _, doc := range mc.docs {
		if matchesFilter(doc, filter) && (!single || result.DeletedCount == 0) {
			result.DeletedCount++
			continue
		}
		remaining = append(remaining, doc)
	}

	mc.docs = remaining
	return result, nil
}

// Count returns the number of stored documents.
func (mc *MemoryCollection) Count() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.docs)
}

// toDocument normalizes any insertable value into a bson.M through a bson
// round-trip, the same representation the driver would persist.
func toDocument(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	var normalized bson.M
	if err := bson.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return normalized, nil
}

// decodeDocuments copies matched documents into *[]T results.
func decodeDocuments(docs []bson.M, results interface{}) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("results must be a pointer to a slice")
	}

	slice := rv.Elem()
	elemType := slice.Type().Elem()
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}

		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}

		slice = reflect.Append(slice, elem.Elem())
	}

	rv.Elem().Set(slice)
	return nil
}

// matchesFilter evaluates the filter subset the API uses: field equality,
// $gt (string comparison), and $in.
func matchesFilter(doc bson.M, filter bson.M) bool {
	for field, condition := range filter {
		value := doc[field]

		operators, ok := condition.(bson.M)
		if !ok {
			if !valuesEqual(value, condition) {
				return false
			}
			continue
		}

		for op, arg := range operators {
			switch op {
			case "$gt":
				if !(stringValue(value) > stringValue(arg)) {
					return false
				}
			case "$in":
				if !containsValue(arg, value) {
					return false
				}
			default:
				return false
			}
		}
	}

	return true
}

func valuesEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

func containsValue(set interface{}, value interface{}) bool {
	rv := reflect.ValueOf(set)
	if rv.Kind() != reflect.Slice {
		return false
	}

	for i := 0; i < rv.Len(); i++ {
		if valuesEqual(rv.Index(i).Interface(), value) {
			return true
		}
	}

	return false
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
