package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL = "https://dummyjson.com"
	DefaultTimeout = 15 * time.Second

	// tokenExpiresInMins is sent with every login request; the backend
	// scopes the access token lifetime to it.
	tokenExpiresInMins = 30
)

// CatalogAPI is the remote product/category surface consumed by the
// product repository.
type CatalogAPI interface {
	Products(ctx context.Context, limit, skip int) (*ProductsResponse, error)
	ProductByID(ctx context.Context, id int) (*ProductDTO, error)
	SearchProducts(ctx context.Context, query string, limit, skip int) (*ProductsResponse, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	ProductsByCategory(ctx context.Context, slug string, limit, skip int) (*ProductsResponse, error)
}

// CartAPI is the remote cart surface consumed by the cart repository.
type CartAPI interface {
	Carts(ctx context.Context, limit, skip int) (*CartsResponse, error)
	CartsByUser(ctx context.Context, userID int) (*CartsResponse, error)
	AddCart(ctx context.Context, req AddCartRequest) (*CartDTO, error)
}

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
}

// Client talks HTTP/JSON to the catalog/cart/auth service.
type Client struct {
	baseURL string
	timeout time.Duration
}

var (
	_ CatalogAPI = (*Client)(nil)
	_ CartAPI    = (*Client)(nil)
	_ AuthAPI    = (*Client)(nil)
)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *Client) Products(ctx context.Context, limit, skip int) (*ProductsResponse, error) {
	var resp ProductsResponse
	err := c.get(ctx, "/products", gout.H{"limit": limit, "skip": skip}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ProductByID(ctx context.Context, id int) (*ProductDTO, error) {
	var dto ProductDTO
	err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &dto)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, limit, skip int) (*ProductsResponse, error) {
	var resp ProductsResponse
	err := c.get(ctx, "/products/search", gout.H{"q": query, "limit": limit, "skip": skip}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Categories(ctx context.Context) ([]CategoryDTO, error) {
	var dtos []CategoryDTO
	err := c.get(ctx, "/products/categories", nil, &dtos)
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, slug string, limit, skip int) (*ProductsResponse, error) {
	var resp ProductsResponse
	err := c.get(ctx, "/products/category/"+slug, gout.H{"limit": limit, "skip": skip}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Carts(ctx context.Context, limit, skip int) (*CartsResponse, error) {
	var resp CartsResponse
	err := c.get(ctx, "/carts", gout.H{"limit": limit, "skip": skip}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CartsByUser(ctx context.Context, userID int) (*CartsResponse, error) {
	var resp CartsResponse
	err := c.get(ctx, fmt.Sprintf("/carts/user/%d", userID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddCart(ctx context.Context, req AddCartRequest) (*CartDTO, error) {
	var dto CartDTO
	err := c.post(ctx, "/carts/add", req, &dto)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	req := LoginRequest{Username: username, Password: password, ExpiresInMins: tokenExpiresInMins}
	err := c.post(ctx, "/auth/login", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query gout.H, out interface{}) error {
	var (
		code int
		body []byte
	)
	df := gout.GET(c.baseURL + path).
		WithContext(ctx).
		SetTimeout(c.timeout)
	if query != nil {
		df = df.SetQuery(query)
	}
	if err := df.Code(&code).BindBody(&body).Do(); err != nil {
		return errors.Wrapf(err, "GET %s: remote unreachable", path)
	}
	return c.decode(path, code, body, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	var (
		code int
		body []byte
	)
	err := gout.POST(c.baseURL + path).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(payload).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return errors.Wrapf(err, "POST %s: remote unreachable", path)
	}
	return c.decode(path, code, body, out)
}

func (c *Client) decode(path string, code int, body []byte, out interface{}) error {
	if code < 200 || code >= 300 {
		return &StatusError{StatusCode: code, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "%s: decode response", path)
	}
	return nil
}
