package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

var (
	_ ports.CatalogAPI      = (*Client)(nil)
	_ ports.ProductAdminAPI = (*Client)(nil)
)

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func (c *Client) productPage(ctx context.Context, cl call) (*domain.Page[domain.Product], error) {
	body, err := c.send(ctx, cl)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[domain.Product](body)
	if err != nil {
		return nil, fmt.Errorf("restapi: decode %s: %w", cl.route, err)
	}
	return page, nil
}

func (c *Client) ListProducts(ctx context.Context, page, size int) (*domain.Page[domain.Product], error) {
	return c.productPage(ctx, call{
		method: http.MethodGet,
		route:  "/products",
		path:   "/products",
		query:  pageQuery(page, size),
	})
}

func (c *Client) SearchProducts(ctx context.Context, keyword string, page, size int) (*domain.Page[domain.Product], error) {
	q := pageQuery(page, size)
	q.Set("keyword", keyword)
	return c.productPage(ctx, call{
		method: http.MethodGet,
		route:  "/products/search",
		path:   "/products/search",
		query:  q,
	})
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, call{method: http.MethodGet, route: "/products/{id}", path: idPath("/products", id, "")}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats := []domain.Category{}
	if err := c.do(ctx, call{method: http.MethodGet, route: "/categories", path: "/categories"}, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, call{method: http.MethodPost, route: "/products", path: "/products", body: in}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	err := c.do(ctx, call{method: http.MethodPut, route: "/products/{id}", path: idPath("/products", id, ""), body: in}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/products/{id}", path: idPath("/products", id, "")}, nil)
}
