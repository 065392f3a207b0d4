package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogrepo "clinicbook/internal/catalog/repository"
	catalogvalidator "clinicbook/internal/catalog/validator"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

// Catalog is the reference data a fresh clinic starts with.
type Catalog struct {
	Services      []*model.Service
	Branches      []*model.Branch
	Practitioners []*model.Practitioner
}

func DefaultCatalog() Catalog {
	return Catalog{
		Services: []*model.Service{
			{ID: "S1", Name: "Routine Check-up", DurationMin: 30},
			{ID: "S2", Name: "Teeth Cleaning", DurationMin: 60},
			{ID: "S3", Name: "Filling Procedure", DurationMin: 45},
		},
		Branches: []*model.Branch{
			{ID: "B1", Name: "Main Street Clinic", StartHour: 8, EndHour: 18},
		},
		Practitioners: []*model.Practitioner{
			{ID: "D1", Name: "Dr. Evelyn Reed", StartHour: 9, EndHour: 17, BranchID: "B1"},
			{ID: "D2", Name: "Dr. Marcus Hill", StartHour: 8, EndHour: 16, BranchID: "B1"},
		},
	}
}

// Validate checks every entry, including practitioner affiliations, and
// reports the first failure with the offending id.
func (c Catalog) Validate(v *catalogvalidator.CatalogValidator) error {
	branches := make(map[string]*model.Branch, len(c.Branches))
	for _, s := range c.Services {
		if err := v.ValidateService(s); err != nil {
			return fmt.Errorf("service %s: %w", s.ID, err)
		}
	}
	for _, b := range c.Branches {
		if err := v.ValidateBranch(b); err != nil {
			return fmt.Errorf("branch %s: %w", b.ID, err)
		}
		branches[b.ID] = b
	}
	for _, p := range c.Practitioners {
		if err := v.ValidatePractitioner(p, branches); err != nil {
			return fmt.Errorf("practitioner %s: %w", p.ID, err)
		}
	}
	return nil
}

// SeedCatalog upserts the catalog by id, so running it twice is harmless.
func SeedCatalog(ctx context.Context, db *mongo.Database, c Catalog, v *catalogvalidator.CatalogValidator, log *logger.Logger) error {
	if err := c.Validate(v); err != nil {
		return fmt.Errorf("catalog seed rejected: %w", err)
	}

	if err := upsertAll(ctx, db.Collection(catalogrepo.ServicesCollection), c.Services, func(s *model.Service) string { return s.ID }); err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}
	if err := upsertAll(ctx, db.Collection(catalogrepo.BranchesCollection), c.Branches, func(b *model.Branch) string { return b.ID }); err != nil {
		return fmt.Errorf("failed to seed branches: %w", err)
	}
	if err := upsertAll(ctx, db.Collection(catalogrepo.PractitionersCollection), c.Practitioners, func(p *model.Practitioner) string { return p.ID }); err != nil {
		return fmt.Errorf("failed to seed practitioners: %w", err)
	}

	log.Info("Catalog seeded",
		"services", len(c.Services),
		"branches", len(c.Branches),
		"practitioners", len(c.Practitioners),
	)
	return nil
}

func upsertAll[T any](ctx context.Context, coll *mongo.Collection, docs []T, id func(T) string) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id(d)}).
			SetReplacement(d).
			SetUpsert(true))
	}
	_, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}
