package main

import (
	"context"
	"flag"
	"time"

	catalogvalidator "clinicbook/internal/catalog/validator"
	mongoMigration "clinicbook/internal/migrations/mongo"
	"clinicbook/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", false, "upsert the default clinic catalog after migrating")
	timeout := flag.Duration("timeout", 120*time.Second, "overall job timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job", "seed", *seed)

	err := migrate(ctx, cfg, *seed)
	cfg.Client.GracefulShutdown(cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}

func migrate(ctx context.Context, cfg *config.Config, seed bool) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	v := catalogvalidator.NewCatalogValidator(cfg.Log)
	return mongoMigration.SeedCatalog(ctx, db, mongoMigration.DefaultCatalog(), v, cfg.Log)
}
