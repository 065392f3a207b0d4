package repository

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "clinicbook/internal/catalog/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ServicesCollection      = "Services"
	PractitionersCollection = "Practitioners"
	BranchesCollection      = "Branches"
)

type CatalogRepository interface {
	ListServices(ctx context.Context) ([]*model.Service, error)
	ListBranches(ctx context.Context) ([]*model.Branch, error)
	ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error)
	GetService(ctx context.Context, id string) (*model.Service, error)
	GetBranch(ctx context.Context, id string) (*model.Branch, error)
	GetPractitioner(ctx context.Context, id string) (*model.Practitioner, error)
}

type mongoCatalogRepository struct {
	cfg           *config.Config
	db            *mongo.Database
	services      *mongo.Collection
	branches      *mongo.Collection
	practitioners *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:           cfg,
		db:            db,
		services:      db.Collection(ServicesCollection),
		branches:      db.Collection(BranchesCollection),
		practitioners: db.Collection(PractitionersCollection),
	}
}

func (r *mongoCatalogRepository) ListServices(ctx context.Context) ([]*model.Service, error) {
	return findAll[model.Service](ctx, r, r.services, bson.M{}, "services")
}

func (r *mongoCatalogRepository) ListBranches(ctx context.Context) ([]*model.Branch, error) {
	return findAll[model.Branch](ctx, r, r.branches, bson.M{}, "branches")
}

func (r *mongoCatalogRepository) ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error) {
	filter := bson.M{}
	if branchID != "" {
		filter["branch_id"] = branchID
	}
	return findAll[model.Practitioner](ctx, r, r.practitioners, filter, "practitioners")
}

func (r *mongoCatalogRepository) GetService(ctx context.Context, id string) (*model.Service, error) {
	return findByID[model.Service](ctx, r, r.services, id, "service")
}

func (r *mongoCatalogRepository) GetBranch(ctx context.Context, id string) (*model.Branch, error) {
	return findByID[model.Branch](ctx, r, r.branches, id, "branch")
}

func (r *mongoCatalogRepository) GetPractitioner(ctx context.Context, id string) (*model.Practitioner, error) {
	return findByID[model.Practitioner](ctx, r, r.practitioners, id, "practitioner")
}

func findByID[T any](ctx context.Context, r *mongoCatalogRepository, coll *mongo.Collection, id, kind string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty %s id", catalogerrors.ErrInvalidID, kind)
	}
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc T
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s %s", catalogerrors.ErrNotFound, kind, id)
		}
		return nil, fmt.Errorf("failed to find %s: %w", kind, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, r *mongoCatalogRepository, coll *mongo.Collection, filter bson.M, kind string) ([]*T, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", kind, err)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return docs, nil
}
