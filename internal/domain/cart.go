package domain

// Cart is a cached shopping cart. The whole cart is replaced atomically
// on update; its line items are an embedded sequence, not a relation.
type Cart struct {
	ID              int          `gorm:"primaryKey" json:"id"`
	UserID          int          `gorm:"index" json:"userId"`
	Products        CartLineList `gorm:"type:text" json:"products"`
	Total           float64      `json:"total"`
	DiscountedTotal float64      `json:"discountedTotal"`
	TotalProducts   int          `json:"totalProducts"`
	TotalQuantity   int          `json:"totalQuantity"`
	LastUpdated     int64        `gorm:"index" json:"-"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartLine is a denormalized snapshot of product data taken at
// add-to-cart time. It keeps its own copy of title, price and thumbnail
// so historical totals stay stable when the catalog changes.
type CartLine struct {
	ProductID          int     `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Total              float64 `json:"total"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountedTotal    float64 `json:"discountedTotal"`
	Thumbnail          string  `json:"thumbnail"`
}

// CartSelection is a product id and quantity chosen for an add-to-cart
// request.
type CartSelection struct {
	ProductID int `json:"id"`
	Quantity  int `json:"quantity"`
}
