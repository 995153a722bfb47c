package repository

import (
	"context"
	"slices"
	"time"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase/interfaces"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const catalogCacheKey = "all"

// CachedServiceCatalog is a read-through cache in front of a service catalog.
// Writes go to the underlying repository and drop the cached list.
type CachedServiceCatalog struct {
	next  interfaces.IServiceCatalogRepository
	cache *expirable.LRU[string, []entities.Service]
}

var _ interfaces.IServiceCatalogRepository = (*CachedServiceCatalog)(nil)

func NewCachedServiceCatalog(next interfaces.IServiceCatalogRepository, size int, ttl time.Duration) *CachedServiceCatalog {
	return &CachedServiceCatalog{
		next:  next,
		cache: expirable.NewLRU[string, []entities.Service](cacheSize(size), nil, ttl),
	}
}

func (c *CachedServiceCatalog) ListServices(ctx context.Context) ([]entities.Service, error) {
	if list, ok := c.cache.Get(catalogCacheKey); ok {
		return slices.Clone(list), nil
	}
	list, err := c.next.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(catalogCacheKey, list)
	zap.L().Debug("[catalog][cache] services loaded", zap.Int("count", len(list)))
	return slices.Clone(list), nil
}

func (c *CachedServiceCatalog) PutService(ctx context.Context, s entities.Service) error {
	defer c.cache.Purge()
	return c.next.PutService(ctx, s)
}

// CachedPackageCatalog is the package counterpart of CachedServiceCatalog.
// Packages are deep-copied in and out of the cache, so callers may mutate
// the phases and line items they get back.
type CachedPackageCatalog struct {
	next  interfaces.IPackageCatalogRepository
	cache *expirable.LRU[string, []entities.Package]
}

var _ interfaces.IPackageCatalogRepository = (*CachedPackageCatalog)(nil)

func NewCachedPackageCatalog(next interfaces.IPackageCatalogRepository, size int, ttl time.Duration) *CachedPackageCatalog {
	return &CachedPackageCatalog{
		next:  next,
		cache: expirable.NewLRU[string, []entities.Package](cacheSize(size), nil, ttl),
	}
}

func (c *CachedPackageCatalog) ListPackages(ctx context.Context) ([]entities.Package, error) {
	if list, ok := c.cache.Get(catalogCacheKey); ok {
		return clonePackages(list), nil
	}
	list, err := c.next.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(catalogCacheKey, clonePackages(list))
	zap.L().Debug("[catalog][cache] packages loaded", zap.Int("count", len(list)))
	return list, nil
}

func (c *CachedPackageCatalog) PutPackage(ctx context.Context, p entities.Package) error {
	defer c.cache.Purge()
	return c.next.PutPackage(ctx, p)
}

func clonePackages(list []entities.Package) []entities.Package {
	if list == nil {
		return nil
	}
	out := make([]entities.Package, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

func cacheSize(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
