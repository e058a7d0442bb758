package store

import (
	"context"
	"testing"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCarts() []domain.Cart {
	return []domain.Cart{
		{
			ID:     1,
			UserID: 5,
			Products: domain.CartLineList{
				{ProductID: 144, Title: "Cricket Helmet", Price: 44.99, Quantity: 4,
					Total: 179.96, DiscountPercentage: 11.47, DiscountedTotal: 159.32,
					Thumbnail: "https://cdn.dummyjson.com/144/thumbnail.png"},
				{ProductID: 98, Title: "Rolex Submariner Watch", Price: 13999.99, Quantity: 1,
					Total: 13999.99, DiscountPercentage: 0.82, DiscountedTotal: 13885.19,
					Thumbnail: "https://cdn.dummyjson.com/98/thumbnail.png"},
			},
			Total:           14179.95,
			DiscountedTotal: 14044.51,
			TotalProducts:   2,
			TotalQuantity:   5,
		},
		{
			ID:     2,
			UserID: 5,
			Products: domain.CartLineList{
				{ProductID: 12, Title: "Powder Canister", Price: 14.99, Quantity: 2,
					Total: 29.98, DiscountedTotal: 29.98},
			},
			Total:           29.98,
			DiscountedTotal: 29.98,
			TotalProducts:   1,
			TotalQuantity:   2,
		},
		{
			ID:     3,
			UserID: 8,
			Products: domain.CartLineList{
				{ProductID: 7, Title: "Chair", Price: 49.99, Quantity: 1,
					Total: 49.99, DiscountedTotal: 49.99},
			},
			Total:           49.99,
			DiscountedTotal: 49.99,
			TotalProducts:   1,
			TotalQuantity:   1,
		},
	}
}

func TestCartRoundTripKeepsEmbeddedLines(t *testing.T) {
	ctx := context.Background()
	s := NewGormCartStore(newTestDB(t))
	require.NoError(t, s.ReplaceAll(ctx, testCarts()))

	cart, err := s.ByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Products, 2)
	assert.Equal(t, "Cricket Helmet", cart.Products[0].Title)
	assert.Equal(t, 159.32, cart.Products[0].DiscountedTotal)
	assert.Equal(t, 13885.19, cart.Products[1].DiscountedTotal)
}

func TestCartReplaceByUserLeavesOtherPartitionsAlone(t *testing.T) {
	ctx := context.Background()
	s := NewGormCartStore(newTestDB(t))
	require.NoError(t, s.ReplaceAll(ctx, testCarts()))

	replacement := []domain.Cart{{
		ID:     21,
		UserID: 5,
		Products: domain.CartLineList{
			{ProductID: 1, Title: "Essence Mascara Lash Princess", Price: 9.99,
				Quantity: 1, Total: 9.99, DiscountedTotal: 9.27},
		},
		Total: 9.99, DiscountedTotal: 9.27, TotalProducts: 1, TotalQuantity: 1,
	}}
	require.NoError(t, s.ReplaceByUser(ctx, 5, replacement))

	mine, err := s.ByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 21, mine[0].ID)

	theirs, err := s.ByUser(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestCartSnapshotScopes(t *testing.T) {
	ctx := context.Background()
	s := NewGormCartStore(newTestDB(t))
	require.NoError(t, s.ReplaceAll(ctx, testCarts()))

	all, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Count)
	assert.NotZero(t, all.LastUpdate)

	byUser, err := s.SnapshotByUser(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, byUser.Count)

	empty, err := s.SnapshotByUser(ctx, 404)
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Count)
	assert.EqualValues(t, 0, empty.LastUpdate)
}

func TestCartUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewGormCartStore(newTestDB(t))
	require.NoError(t, s.ReplaceAll(ctx, testCarts()))

	cart := testCarts()[0]
	cart.TotalQuantity = 9
	require.NoError(t, s.Upsert(ctx, &cart))

	got, err := s.ByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.TotalQuantity)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, snap.Count)
}
