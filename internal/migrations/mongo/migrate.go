package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "clinicbook/internal/bookings/repository"
	catalogrepo "clinicbook/internal/catalog/repository"
	"clinicbook/internal/migrations/mongo/validators"
	"clinicbook/pkg/logger"
)

var (
	// Lookups by id only; _id is indexed already.
	ServicesIndexes = []mongo.IndexModel{}
	BranchesIndexes = []mongo.IndexModel{}

	PractitionersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "branch_id", Value: 1}}},
	}

	// Deliberately not unique: concurrent requests for the same slot are
	// resolved at review time.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "date_key", Value: 1},
			{Key: "resource_id", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "created_at", Value: 1},
		}},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func collections() map[string]collectionDef {
	return map[string]collectionDef{
		catalogrepo.ServicesCollection:      {Indexes: ServicesIndexes, Validator: validators.ServiceValidator},
		catalogrepo.BranchesCollection:      {Indexes: BranchesIndexes, Validator: validators.BranchValidator},
		catalogrepo.PractitionersCollection: {Indexes: PractitionersIndexes, Validator: validators.PractitionerValidator},
		bookingsrepo.CollectionName:         {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
