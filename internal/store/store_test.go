package store

import (
	"testing"

	"github.com/gencidev/storefront/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID:                 1,
			Title:              "Essence Mascara Lash Princess",
			Description:        "A popular mascara known for its volumizing effects",
			Category:           "beauty",
			Brand:              "Essence",
			Price:              9.99,
			DiscountPercentage: 7.17,
			Rating:             4.94,
			Stock:              5,
			Thumbnail:          "https://cdn.dummyjson.com/1/thumbnail.png",
			Images:             domain.StringList{"https://cdn.dummyjson.com/1/1.png"},
			Sku:                "RCH45Q1A",
			Weight:             2,
			Tags:               domain.StringList{"beauty", "mascara"},
		},
		{
			ID:          2,
			Title:       "Eyeshadow Palette with Mirror",
			Description: "A versatile eyeshadow palette",
			Category:    "beauty",
			Brand:       "Glamour Beauty",
			Price:       19.99,
			Stock:       44,
			Sku:         "MVCFH27F",
			Images:      domain.StringList{},
			Tags:        domain.StringList{"beauty"},
		},
		{
			ID:          3,
			Title:       "Wireless Keyboard",
			Description: "Compact mechanical keyboard",
			Category:    "electronics",
			Brand:       "KeyTech",
			Price:       59.90,
			Stock:       12,
			Sku:         "KB900",
			Images:      domain.StringList{},
			Tags:        domain.StringList{"electronics"},
		},
	}
}
