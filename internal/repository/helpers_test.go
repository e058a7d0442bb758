package repository

import (
	"context"
	"testing"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errRemoteDown = errors.New("connection refused")

type fakeNet struct {
	online bool
}

func (f *fakeNet) IsOnline() bool { return f.online }

// fakeCatalogAPI serves canned DTOs and counts calls per operation.
type fakeCatalogAPI struct {
	products     []remote.ProductDTO
	categories   []remote.CategoryDTO
	fail          bool
	productCalls  int
	searchCalls   int
	detailCalls   int
	categoryCalls int
}

func (f *fakeCatalogAPI) Products(ctx context.Context, limit, skip int) (*remote.ProductsResponse, error) {
	f.productCalls++
	if f.fail {
		return nil, errRemoteDown
	}
	return &remote.ProductsResponse{Products: f.products, Total: len(f.products), Limit: limit, Skip: skip}, nil
}

func (f *fakeCatalogAPI) ProductByID(ctx context.Context, id int) (*remote.ProductDTO, error) {
	f.detailCalls++
	if f.fail {
		return nil, errRemoteDown
	}
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, &remote.StatusError{StatusCode: 404, Body: "product not found"}
}

func (f *fakeCatalogAPI) SearchProducts(ctx context.Context, query string, limit, skip int) (*remote.ProductsResponse, error) {
	f.searchCalls++
	if f.fail {
		return nil, errRemoteDown
	}
	return &remote.ProductsResponse{Products: f.products, Total: len(f.products)}, nil
}

func (f *fakeCatalogAPI) Categories(ctx context.Context) ([]remote.CategoryDTO, error) {
	f.categoryCalls++
	if f.fail {
		return nil, errRemoteDown
	}
	return f.categories, nil
}

func (f *fakeCatalogAPI) ProductsByCategory(ctx context.Context, slug string, limit, skip int) (*remote.ProductsResponse, error) {
	if f.fail {
		return nil, errRemoteDown
	}
	var hits []remote.ProductDTO
	for _, p := range f.products {
		if p.Category == slug {
			hits = append(hits, p)
		}
	}
	return &remote.ProductsResponse{Products: hits, Total: len(hits)}, nil
}

type fakeCartAPI struct {
	carts    []remote.CartDTO
	fail     bool
	lastAdd  *remote.AddCartRequest
	listCall int
}

func (f *fakeCartAPI) Carts(ctx context.Context, limit, skip int) (*remote.CartsResponse, error) {
	f.listCall++
	if f.fail {
		return nil, errRemoteDown
	}
	return &remote.CartsResponse{Carts: f.carts, Total: len(f.carts)}, nil
}

func (f *fakeCartAPI) CartsByUser(ctx context.Context, userID int) (*remote.CartsResponse, error) {
	if f.fail {
		return nil, errRemoteDown
	}
	var hits []remote.CartDTO
	for _, c := range f.carts {
		if c.UserID == userID {
			hits = append(hits, c)
		}
	}
	return &remote.CartsResponse{Carts: hits, Total: len(hits)}, nil
}

func (f *fakeCartAPI) AddCart(ctx context.Context, req remote.AddCartRequest) (*remote.CartDTO, error) {
	f.lastAdd = &req
	if f.fail {
		return nil, errRemoteDown
	}
	lines := make([]remote.CartLineDTO, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, remote.CartLineDTO{ID: p.ID, Quantity: p.Quantity, Title: "snapshot"})
	}
	return &remote.CartDTO{ID: 51, UserID: req.UserID, Products: lines, TotalProducts: len(lines)}, nil
}

type fakeAuthAPI struct {
	resp *remote.LoginResponse
	fail bool
}

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (*remote.LoginResponse, error) {
	if f.fail {
		return nil, &remote.StatusError{StatusCode: 400, Body: "invalid credentials"}
	}
	return f.resp, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// ageCache rewinds every cached record's write timestamp so the next
// policy evaluation sees a stale cache.
func ageCache(t *testing.T, db *gorm.DB, model interface{}, ageMillis int64) {
	t.Helper()
	err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(model).
		Update("last_updated", gorm.Expr("last_updated - ?", ageMillis)).Error
	require.NoError(t, err)
}

func catalogDTOs(n int) []remote.ProductDTO {
	out := make([]remote.ProductDTO, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, remote.ProductDTO{
			ID:       i,
			Title:    "Product",
			Category: "beauty",
			Brand:    "Essence",
			Price:    9.99,
			Images:   []string{},
			Tags:     []string{"beauty"},
		})
	}
	return out
}

func newProductEnv(t *testing.T, online bool) (*ProductRepository, *fakeCatalogAPI, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	api := &fakeCatalogAPI{
		products: catalogDTOs(10),
		categories: []remote.CategoryDTO{
			{Slug: "beauty", Name: "Beauty", URL: "https://dummyjson.com/products/category/beauty"},
		},
	}
	repo := NewProductRepository(api,
		store.NewGormProductStore(db),
		store.NewGormCategoryStore(db),
		&fakeNet{online: online}, 0, 0)
	return repo, api, db
}
