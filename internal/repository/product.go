package repository

import (
	"context"
	"time"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/freshness"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Pagination defaults mirroring the catalog service.
const (
	DefaultProductLimit = 30
	DefaultCartLimit    = 100
)

// ProductRepository is the single entry point the UI layer calls for
// catalog reads.
type ProductRepository struct {
	api               remote.CatalogAPI
	products          store.ProductStore
	categories        store.CategoryStore
	net               Connectivity
	threshold         time.Duration
	categoryThreshold time.Duration
	flight            singleflight.Group
}

func NewProductRepository(
	api remote.CatalogAPI,
	products store.ProductStore,
	categories store.CategoryStore,
	net Connectivity,
	threshold, categoryThreshold time.Duration,
) *ProductRepository {
	if threshold <= 0 {
		threshold = freshness.DefaultCatalogTTL
	}
	if categoryThreshold <= 0 {
		categoryThreshold = freshness.DefaultCatalogTTL
	}
	return &ProductRepository{
		api:               api,
		products:          products,
		categories:        categories,
		net:               net,
		threshold:         threshold,
		categoryThreshold: categoryThreshold,
	}
}

// List returns the product collection, read-through with wholesale
// cache replace and stale fallback.
func (r *ProductRepository) List(ctx context.Context, limit, skip int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	col := &cachedCollection[domain.Product]{
		scope:     "products",
		threshold: r.threshold,
		flight:    &r.flight,
		snapshot:  r.products.Snapshot,
		read:      r.products.All,
		replace:   r.products.ReplaceAll,
		fetch: func(ctx context.Context) ([]domain.Product, error) {
			resp, err := r.api.Products(ctx, limit, skip)
			if err != nil {
				return nil, err
			}
			return resp.ToDomain(), nil
		},
	}
	return col.load(ctx, r.net.IsOnline())
}

// GetByID returns one product. Offline with a cached copy
// short-circuits; online always asks remote and upserts on success,
// falling back to the cached copy on failure.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	cached, err := r.products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !r.net.IsOnline() {
		if cached != nil {
			return cached, nil
		}
		return nil, errors.Wrapf(ErrNotCached, "product %d", id)
	}

	dto, err := r.api.ProductByID(ctx, id)
	if err != nil {
		if cached != nil {
			zap.L().Warn("product fetch failed, serving cached copy",
				zap.Int("id", id), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	p := dto.ToDomain()
	if err := r.products.Upsert(ctx, &p); err != nil {
		return nil, &CacheWriteError{Err: err}
	}
	return &p, nil
}

// Search queries the remote search predicate when online so results
// match what the service would return, and degrades to the cached
// substring predicate on failure or offline.
func (r *ProductRepository) Search(ctx context.Context, query string, limit, skip int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if !r.net.IsOnline() {
		return r.products.Search(ctx, query)
	}

	resp, err := r.api.SearchProducts(ctx, query, limit, skip)
	if err != nil {
		zap.L().Warn("remote search failed, searching cache",
			zap.String("query", query), zap.Error(err))
		return r.products.Search(ctx, query)
	}
	return resp.ToDomain(), nil
}

// ListByCategory returns one category's products. Fetched rows are
// upserted per id rather than replacing the whole collection, so a
// category fetch never evicts the rest of the catalog.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string, limit, skip int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if !r.net.IsOnline() {
		return r.products.ByCategory(ctx, category)
	}

	resp, err := r.api.ProductsByCategory(ctx, category, limit, skip)
	if err != nil {
		zap.L().Warn("category fetch failed, serving cached scope",
			zap.String("category", category), zap.Error(err))
		return r.products.ByCategory(ctx, category)
	}

	products := resp.ToDomain()
	if err := r.products.UpsertAll(ctx, products); err != nil {
		return nil, &CacheWriteError{Err: err}
	}
	return products, nil
}

// Categories returns the category set under the same policy as List,
// with its own cache scope and threshold.
func (r *ProductRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	col := &cachedCollection[domain.Category]{
		scope:     "categories",
		threshold: r.categoryThreshold,
		flight:    &r.flight,
		snapshot:  r.categories.Snapshot,
		read:      r.categories.All,
		replace:   r.categories.ReplaceAll,
		fetch: func(ctx context.Context) ([]domain.Category, error) {
			dtos, err := r.api.Categories(ctx)
			if err != nil {
				return nil, err
			}
			return remote.CategoriesToDomain(dtos), nil
		},
	}
	return col.load(ctx, r.net.IsOnline())
}

// ClearCache drops all cached products and categories. Diagnostics
// and tests only.
func (r *ProductRepository) ClearCache(ctx context.Context) error {
	if err := r.products.DeleteAll(ctx); err != nil {
		return err
	}
	return r.categories.DeleteAll(ctx)
}

// CatalogCacheInfo reports cache counts and last-update timestamps.
// Display and debugging only, never a business decision input.
type CatalogCacheInfo struct {
	Products           int64 `json:"products"`
	Categories         int64 `json:"categories"`
	LastProductUpdate  int64 `json:"lastProductUpdate"`
	LastCategoryUpdate int64 `json:"lastCategoryUpdate"`
}

func (r *ProductRepository) CacheInfo(ctx context.Context) (*CatalogCacheInfo, error) {
	ps, err := r.products.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cs, err := r.categories.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogCacheInfo{
		Products:           ps.Count,
		Categories:         cs.Count,
		LastProductUpdate:  ps.LastUpdate,
		LastCategoryUpdate: cs.LastUpdate,
	}, nil
}
