//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "clinicbook/internal/bookings/repository"
	catalogvalidator "clinicbook/internal/catalog/validator"
	migrations "clinicbook/internal/migrations/mongo"
	"clinicbook/pkg/logger"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "clinicbook_test"
	ConnectionTimeout   = 10 * time.Second
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{Client: client, Database: client.Database(dbName)}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// SeedCatalog migrates the database and upserts the default catalog.
func (m *MongoHelper) SeedCatalog(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.Discard()
	if err := migrations.RunMigration(ctx, m.Database, log); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	v := catalogvalidator.NewCatalogValidator(log)
	if err := migrations.SeedCatalog(ctx, m.Database, migrations.DefaultCatalog(), v, log); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
}

func (m *MongoHelper) CleanBookings(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.Database.Collection(bookingsrepo.CollectionName).DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("failed to clean bookings: %v", err)
	}
}

func (m *MongoHelper) CountBookings(t *testing.T, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(bookingsrepo.CollectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return count
}
