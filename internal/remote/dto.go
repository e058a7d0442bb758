package remote

import (
	"github.com/gencidev/storefront/internal/domain"
)

type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type LoginResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r *LoginResponse) ToDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Image:     r.Image,
		Gender:    r.Gender,
	}
}

type ProductDTO struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
	Sku                string   `json:"sku"`
	Weight             int      `json:"weight"`
	Tags               []string `json:"tags"`
}

func (d *ProductDTO) ToDomain() domain.Product {
	return domain.Product{
		ID:                 d.ID,
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		Brand:              d.Brand,
		Price:              d.Price,
		DiscountPercentage: d.DiscountPercentage,
		Rating:             d.Rating,
		Stock:              d.Stock,
		Thumbnail:          d.Thumbnail,
		Images:             d.Images,
		Sku:                d.Sku,
		Weight:             d.Weight,
		Tags:               d.Tags,
	}
}

type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
	Skip     int          `json:"skip"`
	Limit    int          `json:"limit"`
}

func (r *ProductsResponse) ToDomain() []domain.Product {
	out := make([]domain.Product, 0, len(r.Products))
	for i := range r.Products {
		out = append(out, r.Products[i].ToDomain())
	}
	return out
}

type CategoryDTO struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (d *CategoryDTO) ToDomain() domain.Category {
	return domain.Category{
		Slug: d.Slug,
		Name: d.Name,
		URL:  d.URL,
	}
}

func CategoriesToDomain(dtos []CategoryDTO) []domain.Category {
	out := make([]domain.Category, 0, len(dtos))
	for i := range dtos {
		out = append(out, dtos[i].ToDomain())
	}
	return out
}

// CartLineDTO carries the line-item discount total under one of two
// alternative field names depending on the backend version. Either is
// authoritative; when both are absent the undiscounted total applies.
type CartLineDTO struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Price              float64  `json:"price"`
	Quantity           int      `json:"quantity"`
	Total              float64  `json:"total"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscountedTotal    *float64 `json:"discountedTotal"`
	DiscountedPrice    *float64 `json:"discountedPrice"`
	Thumbnail          string   `json:"thumbnail"`
}

// EffectiveDiscountedTotal resolves the discount-total fallback chain.
func (d *CartLineDTO) EffectiveDiscountedTotal() float64 {
	if d.DiscountedTotal != nil {
		return *d.DiscountedTotal
	}
	if d.DiscountedPrice != nil {
		return *d.DiscountedPrice
	}
	return d.Total
}

func (d *CartLineDTO) ToDomain() domain.CartLine {
	return domain.CartLine{
		ProductID:          d.ID,
		Title:              d.Title,
		Price:              d.Price,
		Quantity:           d.Quantity,
		Total:              d.Total,
		DiscountPercentage: d.DiscountPercentage,
		DiscountedTotal:    d.EffectiveDiscountedTotal(),
		Thumbnail:          d.Thumbnail,
	}
}

type CartDTO struct {
	ID              int           `json:"id"`
	Products        []CartLineDTO `json:"products"`
	Total           float64       `json:"total"`
	DiscountedTotal float64       `json:"discountedTotal"`
	UserID          int           `json:"userId"`
	TotalProducts   int           `json:"totalProducts"`
	TotalQuantity   int           `json:"totalQuantity"`
}

func (d *CartDTO) ToDomain() domain.Cart {
	lines := make(domain.CartLineList, 0, len(d.Products))
	for i := range d.Products {
		lines = append(lines, d.Products[i].ToDomain())
	}
	return domain.Cart{
		ID:              d.ID,
		UserID:          d.UserID,
		Products:        lines,
		Total:           d.Total,
		DiscountedTotal: d.DiscountedTotal,
		TotalProducts:   d.TotalProducts,
		TotalQuantity:   d.TotalQuantity,
	}
}

type CartsResponse struct {
	Carts []CartDTO `json:"carts"`
	Total int       `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}

func (r *CartsResponse) ToDomain() []domain.Cart {
	out := make([]domain.Cart, 0, len(r.Carts))
	for i := range r.Carts {
		out = append(out, r.Carts[i].ToDomain())
	}
	return out
}

type AddCartProduct struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

type AddCartRequest struct {
	UserID   int              `json:"userId"`
	Products []AddCartProduct `json:"products"`
}
