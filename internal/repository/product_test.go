package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFetchesOnceThenServesCache(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	first, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 1, api.productCalls)

	// Immediate second call: same results, no second remote call.
	second, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, api.productCalls)
	require.Len(t, second, 10)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}

func TestListStaleCacheTriggersRefetch(t *testing.T) {
	ctx := context.Background()
	repo, api, db := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	ageCache(t, db, &domain.Product{}, (6 * 60 * 1000))

	_, err = repo.List(ctx, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, api.productCalls)
}

func TestListStaleFallbackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	repo, api, db := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)

	ageCache(t, db, &domain.Product{}, (6 * 60 * 1000))
	api.fail = true

	// Ten stale products cached, remote down: success with the stale set.
	got, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestListEmptyCacheSurfacesRemoteError(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)
	api.fail = true

	_, err := repo.List(ctx, 30, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errRemoteDown)
}

func TestListOfflineServesStaleCache(t *testing.T) {
	ctx := context.Background()
	repo, api, db := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	ageCache(t, db, &domain.Product{}, (60 * 60 * 1000))

	repo.net.(*fakeNet).online = false
	got, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 1, api.productCalls)
}

func TestListOfflineEmptyCacheFails(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newProductEnv(t, false)

	_, err := repo.List(ctx, 30, 0)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestGetByIDOfflineCachedShortCircuit(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)

	repo.net.(*fakeNet).online = false
	p, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.ID)
	assert.Zero(t, api.detailCalls)
}

func TestGetByIDOfflineNotCached(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newProductEnv(t, false)

	_, err := repo.GetByID(ctx, 3)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestGetByIDOnlineUpserts(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	p, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, 1, api.detailCalls)

	// Detail fetch upserted the row; offline read now succeeds.
	repo.net.(*fakeNet).online = false
	cached, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cached.ID)
}

func TestGetByIDRemoteFailureFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	_, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)

	api.fail = true
	p, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)

	// Nothing cached for this id: the remote error surfaces.
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, errRemoteDown)
}

func TestSearchPrefersRemote(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	got, err := repo.Search(ctx, "mascara", 30, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 1, api.searchCalls)
}

func TestSearchFallsBackToCachePredicate(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)

	api.fail = true
	got, err := repo.Search(ctx, "Product", 30, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	// Offline search never touches remote.
	calls := api.searchCalls
	repo.net.(*fakeNet).online = false
	_, err = repo.Search(ctx, "Product", 30, 0)
	require.NoError(t, err)
	assert.Equal(t, calls, api.searchCalls)
}

func TestListByCategoryUpsertsWithoutEvicting(t *testing.T) {
	ctx := context.Background()
	repo, _, db := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)

	got, err := repo.ListByCategory(ctx, "beauty", 30, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}

func TestCategoriesPolicyAndFallback(t *testing.T) {
	ctx := context.Background()
	repo, api, _ := newProductEnv(t, true)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "beauty", cats[0].Slug)

	// Cached set survives a remote outage.
	api.fail = true
	repo.net.(*fakeNet).online = false
	cats, err = repo.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestCategoryThresholdIndependentOfProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	api := &fakeCatalogAPI{
		products: catalogDTOs(3),
		categories: []remote.CategoryDTO{
			{Slug: "beauty", Name: "Beauty", URL: "https://dummyjson.com/products/category/beauty"},
		},
	}
	repo := NewProductRepository(api,
		store.NewGormProductStore(db),
		store.NewGormCategoryStore(db),
		&fakeNet{online: true},
		time.Minute, time.Hour)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	_, err = repo.Categories(ctx)
	require.NoError(t, err)

	// Ten minutes on, both caches are past the product threshold but
	// well inside the category one.
	ageCache(t, db, &domain.Product{}, 10*60*1000)
	ageCache(t, db, &domain.Category{}, 10*60*1000)

	_, err = repo.List(ctx, 30, 0)
	require.NoError(t, err)
	_, err = repo.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, api.productCalls)
	assert.Equal(t, 1, api.categoryCalls)
}

func TestClearCacheAndCacheInfo(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newProductEnv(t, true)

	_, err := repo.List(ctx, 30, 0)
	require.NoError(t, err)
	_, err = repo.Categories(ctx)
	require.NoError(t, err)

	info, err := repo.CacheInfo(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, info.Products)
	assert.EqualValues(t, 1, info.Categories)
	assert.NotZero(t, info.LastProductUpdate)

	require.NoError(t, repo.ClearCache(ctx))
	info, err = repo.CacheInfo(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.Products)
	assert.Zero(t, info.Categories)
}
