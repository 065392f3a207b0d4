package service

import (
	"context"

	"clinicbook/internal/catalog/repository"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

type CatalogService interface {
	ListServices(ctx context.Context) ([]*model.Service, error)
	ListBranches(ctx context.Context) ([]*model.Branch, error)
	ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	cfg  *config.Config
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	return &catalogService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *catalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list services", "error", err)
		return nil, apperrors.Unavailable("Catalog", err)
	}
	return services, nil
}

func (s *catalogService) ListBranches(ctx context.Context) ([]*model.Branch, error) {
	branches, err := s.repo.ListBranches(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list branches", "error", err)
		return nil, apperrors.Unavailable("Catalog", err)
	}
	return branches, nil
}

func (s *catalogService) ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error) {
	practitioners, err := s.repo.ListPractitioners(ctx, branchID)
	if err != nil {
		s.cfg.Log.Error("Failed to list practitioners", "branch_id", branchID, "error", err)
		return nil, apperrors.Unavailable("Catalog", err)
	}
	return practitioners, nil
}
