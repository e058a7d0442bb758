package domain

// Product is a cached catalog item. A product is never patched field by
// field: the detail fetch upserts the whole row, and list refreshes
// replace the collection wholesale.
type Product struct {
	ID                 int        `gorm:"primaryKey" json:"id"`
	Title              string     `gorm:"index" json:"title"`
	Description        string     `json:"description"`
	Category           string     `gorm:"index" json:"category"`
	Brand              string     `json:"brand"`
	Price              float64    `json:"price"`
	DiscountPercentage float64    `json:"discountPercentage"`
	Rating             float64    `json:"rating"`
	Stock              int        `json:"stock"`
	Thumbnail          string     `gorm:"size:1024" json:"thumbnail"`
	Images             StringList `gorm:"type:text" json:"images"`
	Sku                string     `gorm:"size:64" json:"sku"`
	Weight             int        `json:"weight"`
	Tags               StringList `gorm:"type:text" json:"tags"`
	// LastUpdated is the cache-write time in milliseconds since epoch.
	// Used only for staleness evaluation, never for display.
	LastUpdated int64 `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
