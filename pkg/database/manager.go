package database

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	readingsCollection = "stationAtm41"
	usersCollection    = "users"
)

// DatabaseManager handles all document-store operations. The client is
// established once at startup and shared by every request; the manager
// itself holds no per-request state.
type DatabaseManager struct {
	client   *mongo.Client
	db       *mongo.Database
	readings Collection
	users    Collection
	logger   *zap.SugaredLogger
}

// NewDatabaseManager connects to MongoDB using MONGO_URI / MONGO_DB and
// verifies the connection with a ping before returning.
func NewDatabaseManager(ctx context.Context, logger *zap.SugaredLogger) (*DatabaseManager, error) {
	uri := getEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := getEnv("MONGO_DB", "climateDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := client.Database(dbName)

	logger.Infof("Connected to database %s", dbName)

	return &DatabaseManager{
		client:   client,
		db:       db,
		readings: &mongoCollection{coll: db.Collection(readingsCollection)},
		users:    &mongoCollection{coll: db.Collection(usersCollection)},
		logger:   logger,
	}, nil
}

// NewDatabaseManagerWithCollections wires explicit collection
// implementations. Tests use it with the in-memory store from testing.go.
func NewDatabaseManagerWithCollections(readings, users Collection, logger *zap.SugaredLogger) *DatabaseManager {
	return &DatabaseManager{
		readings: readings,
		users:    users,
		logger:   logger,
	}
}

// Init provisions the indexes backing the sorted and filtered queries:
// a descending rainfall index for the max-rainfall and top-N endpoints and
// a compound time/deviceName index for the lookup endpoint.
func (dm *DatabaseManager) Init(ctx context.Context) error {
	if dm.db == nil {
		return nil
	}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "rainfall", Value: -1}}},
		{Keys: bson.D{{Key: "time", Value: 1}, {Key: "deviceName", Value: 1}}},
	}

	names, err := dm.db.Collection(readingsCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	dm.logger.Infof("✓ Ensured indexes: %v", names)
	return nil
}

// Ping verifies store connectivity, used by the health endpoint.
func (dm *DatabaseManager) Ping(ctx context.Context) error {
	if dm.client == nil {
		return nil
	}
	return dm.client.Ping(ctx, nil)
}

// Close disconnects from the store.
func (dm *DatabaseManager) Close(ctx context.Context) error {
	if dm.client == nil {
		return nil
	}
	return dm.client.Disconnect(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
