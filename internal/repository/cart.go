package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/freshness"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/store"
	"golang.org/x/sync/singleflight"
)

// defaultCartUserID is substituted when a caller passes a non-positive
// user id to AddToCart. The demo backend rejects userId 0; this quirk
// is part of the accepted contract, not a general rule.
const defaultCartUserID = 1

// CartRepository arbitrates cart reads between cache and remote, and
// performs the remote-only add-to-cart write.
type CartRepository struct {
	api       remote.CartAPI
	carts     store.CartStore
	net       Connectivity
	threshold time.Duration
	flight    singleflight.Group
}

func NewCartRepository(api remote.CartAPI, carts store.CartStore, net Connectivity, threshold time.Duration) *CartRepository {
	if threshold <= 0 {
		threshold = freshness.DefaultCartTTL
	}
	return &CartRepository{
		api:       api,
		carts:     carts,
		net:       net,
		threshold: threshold,
	}
}

// List returns all cached/fetchable carts under the cart policy.
func (r *CartRepository) List(ctx context.Context, limit, skip int) ([]domain.Cart, error) {
	if limit <= 0 {
		limit = DefaultCartLimit
	}
	col := &cachedCollection[domain.Cart]{
		scope:     "carts",
		threshold: r.threshold,
		flight:    &r.flight,
		snapshot:  r.carts.Snapshot,
		read:      r.carts.All,
		replace:   r.carts.ReplaceAll,
		fetch: func(ctx context.Context) ([]domain.Cart, error) {
			resp, err := r.api.Carts(ctx, limit, skip)
			if err != nil {
				return nil, err
			}
			return resp.ToDomain(), nil
		},
	}
	return col.load(ctx, r.net.IsOnline())
}

// ListByUser returns one user's carts. Refreshes replace only that
// user's cache partition.
func (r *CartRepository) ListByUser(ctx context.Context, userID int) ([]domain.Cart, error) {
	col := &cachedCollection[domain.Cart]{
		scope:     fmt.Sprintf("carts:user:%d", userID),
		threshold: r.threshold,
		flight:    &r.flight,
		snapshot: func(ctx context.Context) (freshness.Snapshot, error) {
			return r.carts.SnapshotByUser(ctx, userID)
		},
		read: func(ctx context.Context) ([]domain.Cart, error) {
			return r.carts.ByUser(ctx, userID)
		},
		replace: func(ctx context.Context, carts []domain.Cart) error {
			return r.carts.ReplaceByUser(ctx, userID, carts)
		},
		fetch: func(ctx context.Context) ([]domain.Cart, error) {
			resp, err := r.api.CartsByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			return resp.ToDomain(), nil
		},
	}
	return col.load(ctx, r.net.IsOnline())
}

// AddToCart sends the selections to the remote service and caches the
// returned cart. There is no local-only cart: the operation requires
// connectivity and the UI is expected to disable it while offline.
func (r *CartRepository) AddToCart(ctx context.Context, userID int, selections []domain.CartSelection) (*domain.Cart, error) {
	if userID <= 0 {
		userID = defaultCartUserID
	}

	req := remote.AddCartRequest{UserID: userID}
	for _, sel := range selections {
		req.Products = append(req.Products, remote.AddCartProduct{
			ID:       sel.ProductID,
			Quantity: sel.Quantity,
		})
	}

	dto, err := r.api.AddCart(ctx, req)
	if err != nil {
		return nil, err
	}

	cart := dto.ToDomain()
	if err := r.carts.Upsert(ctx, &cart); err != nil {
		return nil, &CacheWriteError{Err: err}
	}
	return &cart, nil
}

// ClearCache drops all cached carts.
func (r *CartRepository) ClearCache(ctx context.Context) error {
	return r.carts.DeleteAll(ctx)
}

// CartCacheInfo reports cart cache counts for diagnostics.
type CartCacheInfo struct {
	Carts      int64 `json:"carts"`
	LastUpdate int64 `json:"lastUpdate"`
}

func (r *CartRepository) CacheInfo(ctx context.Context) (*CartCacheInfo, error) {
	snap, err := r.carts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &CartCacheInfo{Carts: snap.Count, LastUpdate: snap.LastUpdate}, nil
}
