package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/models"
)

const (
	// defaultRainfallThreshold is the rainfall cut-off for the batch query.
	defaultRainfallThreshold = "5"

	// readingBatchSize is a store-transport optimization for the batch
	// query; results are still flattened for the caller.
	readingBatchSize = 3

	// topRainfallLimit caps the indexed-sort query.
	topRainfallLimit = 10
)

// InsertReading stores a reading exactly as supplied: no defaulting and no
// validation of numeric ranges or timestamp format. Repeated calls create
// distinct documents.
func (dm *DatabaseManager) InsertReading(ctx context.Context, reading models.StationReading) (primitive.ObjectID, error) {
	reading.ID = primitive.NilObjectID

	id, err := dm.readings.InsertOne(ctx, reading)
	if err != nil {
		return primitive.NilObjectID, err
	}

	dm.logger.Infow("Inserted reading", "id", id.Hex(), "deviceName", reading.DeviceName)
	return id, nil
}

// MaxRainfall returns the document with the maximum rainfall value: sort by
// rainfall descending, limit 1. Rainfall is stored as a string, so the
// ordering is lexicographic ("9" sorts above "12" and "5").
func (dm *DatabaseManager) MaxRainfall(ctx context.Context) ([]models.StationReading, error) {
	var readings []models.StationReading
	opts := FindOptions{SortField: "rainfall", SortDesc: true, Limit: 1}

	if err := dm.readings.Find(ctx, bson.M{}, opts, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

// FindByTimeAndDevice returns every reading matching both the timestamp and
// the device name exactly, in store default order.
func (dm *DatabaseManager) FindByTimeAndDevice(ctx context.Context, time, deviceName string) ([]models.StationReading, error) {
	var readings []models.StationReading
	filter := bson.M{"time": time, "deviceName": deviceName}

	if err := dm.readings.Find(ctx, filter, FindOptions{}, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

// FindBatchAboveRainfall returns every reading whose rainfall is greater
// than the threshold under the store's native string comparison. The store
// delivers results in batches of three; the caller sees one flat sequence.
func (dm *DatabaseManager) FindBatchAboveRainfall(ctx context.Context, threshold string) ([]models.StationReading, error) {
	if threshold == "" {
		threshold = defaultRainfallThreshold
	}

	var readings []models.StationReading
	filter := bson.M{"rainfall": bson.M{"$gt": threshold}}
	opts := FindOptions{BatchSize: readingBatchSize}

	if err := dm.readings.Find(ctx, filter, opts, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

// TopByRainfall returns up to ten readings sorted by rainfall descending,
// with the same lexicographic ordering caveat as MaxRainfall. The query is
// backed by the rainfall index provisioned at startup.
func (dm *DatabaseManager) TopByRainfall(ctx context.Context) ([]models.StationReading, error) {
	var readings []models.StationReading
	opts := FindOptions{SortField: "rainfall", SortDesc: true, Limit: topRainfallLimit}

	if err := dm.readings.Find(ctx, bson.M{}, opts, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

// AttachFahrenheit converts tempC and sets tempF on the document with the
// given id. An unknown id is not an error; it reports zero counts. The
// Fahrenheit value is computed once here and stored, so it goes stale if
// tempC changes without a follow-up update.
func (dm *DatabaseManager) AttachFahrenheit(ctx context.Context, id, tempC string) (*ChangeResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	tempF := models.FahrenheitFromCelsius(tempC)

	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"tempF": tempF}}

	result, err := dm.readings.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	dm.logger.Infow("Attached tempF", "id", id, "tempC", tempC, "tempF", tempF, "matched", result.MatchedCount)
	return result, nil
}

// UpdateLocationByDevice sets the location on every reading from the given
// device. Zero matches is a success with zero counts; partial application
// across documents is possible and visible in the counts.
func (dm *DatabaseManager) UpdateLocationByDevice(ctx context.Context, deviceName, location string) (*ChangeResult, error) {
	filter := bson.M{"deviceName": deviceName}
	update := bson.M{"$set": bson.M{"location": location}}

	result, err := dm.readings.UpdateMany(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	dm.logger.Infow("Updated station location", "deviceName", deviceName, "matched", result.MatchedCount, "modified", result.ModifiedCount)
	return result, nil
}
