package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLineDiscountFallbackDecode(t *testing.T) {
	// Newer backend shape.
	var line CartLineDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 144, "title": "Cricket Helmet", "price": 44.99, "quantity": 4,
		"total": 179.96, "discountPercentage": 11.47,
		"discountedTotal": 159.32, "thumbnail": "t.png"
	}`), &line))
	assert.Equal(t, 159.32, line.EffectiveDiscountedTotal())

	// Older backend shape reports the same value as discountedPrice.
	line = CartLineDTO{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 144, "title": "Cricket Helmet", "price": 44.99, "quantity": 4,
		"total": 179.96, "discountedPrice": 159.32
	}`), &line))
	assert.Equal(t, 159.32, line.EffectiveDiscountedTotal())

	// Both absent: the undiscounted total is authoritative.
	line = CartLineDTO{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 144, "total": 179.96
	}`), &line))
	assert.Equal(t, 179.96, line.EffectiveDiscountedTotal())
}

func TestCartLineDiscountedTotalWins(t *testing.T) {
	var line CartLineDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"total": 100, "discountedTotal": 90, "discountedPrice": 80
	}`), &line))
	assert.Equal(t, 90.0, line.EffectiveDiscountedTotal())
}

func TestCartDTOToDomainResolvesLineDiscounts(t *testing.T) {
	dp := 29.5
	dto := CartDTO{
		ID:     9,
		UserID: 5,
		Products: []CartLineDTO{
			{ID: 12, Title: "Powder Canister", Total: 29.98, DiscountedPrice: &dp},
		},
		Total: 29.98, DiscountedTotal: 29.5, TotalProducts: 1, TotalQuantity: 2,
	}
	cart := dto.ToDomain()
	require.Len(t, cart.Products, 1)
	assert.Equal(t, 29.5, cart.Products[0].DiscountedTotal)
	assert.Equal(t, 12, cart.Products[0].ProductID)
}

func TestProductDTOToDomain(t *testing.T) {
	dto := ProductDTO{
		ID: 1, Title: "Essence Mascara", Category: "beauty",
		Images: []string{"a.png"}, Tags: []string{"beauty", "mascara"},
	}
	p := dto.ToDomain()
	assert.Equal(t, 1, p.ID)
	assert.EqualValues(t, []string{"a.png"}, []string(p.Images))
	assert.EqualValues(t, []string{"beauty", "mascara"}, []string(p.Tags))
}

func TestNullBrandDecodesToEmptyString(t *testing.T) {
	var dto ProductDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id": 2, "title": "X", "brand": null}`), &dto))
	assert.Equal(t, "", dto.Brand)
}
