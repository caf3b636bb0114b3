package restapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

var (
	_ ports.CartAPI     = (*Client)(nil)
	_ ports.WishlistAPI = (*Client)(nil)
)

func (c *Client) cart(ctx context.Context, cl call) (*domain.Cart, error) {
	cart := domain.EmptyCart()
	if err := c.do(ctx, cl, cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart, nil
}

func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	return c.cart(ctx, call{method: http.MethodGet, route: "/cart", path: "/cart"})
}

func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	return c.cart(ctx, call{
		method: http.MethodPost,
		route:  "/cart/add",
		path:   "/cart/add",
		query: url.Values{
			"productId": {strconv.FormatInt(productID, 10)},
			"quantity":  {strconv.Itoa(quantity)},
		},
	})
}

func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	return c.cart(ctx, call{
		method: http.MethodPut,
		route:  "/cart/item/{id}",
		path:   idPath("/cart/item", itemID, ""),
		query:  url.Values{"quantity": {strconv.Itoa(quantity)}},
	})
}

func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*domain.Cart, error) {
	return c.cart(ctx, call{
		method: http.MethodDelete,
		route:  "/cart/item/{id}",
		path:   idPath("/cart/item", itemID, ""),
	})
}

func (c *Client) wishlist(ctx context.Context, cl call) (*domain.Wishlist, error) {
	w := &domain.Wishlist{Items: []domain.WishlistItem{}}
	if err := c.do(ctx, cl, w); err != nil {
		return nil, err
	}
	if w.Items == nil {
		w.Items = []domain.WishlistItem{}
	}
	return w, nil
}

func (c *Client) GetWishlist(ctx context.Context) (*domain.Wishlist, error) {
	return c.wishlist(ctx, call{method: http.MethodGet, route: "/wishlist", path: "/wishlist"})
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) (*domain.Wishlist, error) {
	return c.wishlist(ctx, call{
		method: http.MethodPost,
		route:  "/wishlist/add",
		path:   "/wishlist/add",
		query:  url.Values{"productId": {strconv.FormatInt(productID, 10)}},
	})
}

func (c *Client) RemoveFromWishlist(ctx context.Context, itemID int64) (*domain.Wishlist, error) {
	return c.wishlist(ctx, call{
		method: http.MethodDelete,
		route:  "/wishlist/item/{id}",
		path:   idPath("/wishlist/item", itemID, ""),
	})
}
