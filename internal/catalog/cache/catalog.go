package cache

import (
	"context"
	"time"

	"clinicbook/internal/catalog/repository"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedCatalog keeps reference data in an expiring LRU in front of the
// repository. Misses and errors are never cached.
type CachedCatalog struct {
	repo  repository.CatalogRepository
	cache *expirable.LRU[string, any]
	log   *logger.Logger
}

var _ repository.CatalogRepository = (*CachedCatalog)(nil)

func NewCachedCatalog(repo repository.CatalogRepository, size int, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	return &CachedCatalog{
		repo:  repo,
		cache: expirable.NewLRU[string, any](size, nil, ttl),
		log:   log.Component("catalog_cache"),
	}
}

func (c *CachedCatalog) ListServices(ctx context.Context) ([]*model.Service, error) {
	return cached(c, "services", func() ([]*model.Service, error) { return c.repo.ListServices(ctx) })
}

func (c *CachedCatalog) ListBranches(ctx context.Context) ([]*model.Branch, error) {
	return cached(c, "branches", func() ([]*model.Branch, error) { return c.repo.ListBranches(ctx) })
}

func (c *CachedCatalog) ListPractitioners(ctx context.Context, branchID string) ([]*model.Practitioner, error) {
	return cached(c, "practitioners:"+branchID, func() ([]*model.Practitioner, error) {
		return c.repo.ListPractitioners(ctx, branchID)
	})
}

func (c *CachedCatalog) GetService(ctx context.Context, id string) (*model.Service, error) {
	return cached(c, "service:"+id, func() (*model.Service, error) { return c.repo.GetService(ctx, id) })
}

func (c *CachedCatalog) GetBranch(ctx context.Context, id string) (*model.Branch, error) {
	return cached(c, "branch:"+id, func() (*model.Branch, error) { return c.repo.GetBranch(ctx, id) })
}

func (c *CachedCatalog) GetPractitioner(ctx context.Context, id string) (*model.Practitioner, error) {
	return cached(c, "practitioner:"+id, func() (*model.Practitioner, error) { return c.repo.GetPractitioner(ctx, id) })
}

// Purge drops every cached entry.
func (c *CachedCatalog) Purge() {
	c.cache.Purge()
	c.log.Info("Catalog cache purged")
}

func (c *CachedCatalog) Len() int {
	return c.cache.Len()
}

func cached[T any](c *CachedCatalog, key string, load func() (T, error)) (T, error) {
	if v, ok := c.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.log.Debug("cache hit", "key", key)
			return typed, nil
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.cache.Add(key, v)
	c.log.Debug("cache miss", "key", key)
	return v, nil
}
