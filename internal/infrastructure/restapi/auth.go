package restapi

import (
	"context"
	"net/http"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.AccountAPI = (*Client)(nil)
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the identity with the token alongside it.
type loginResponse struct {
	Token string `json:"token"`
	domain.Identity
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	var resp loginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return "", nil, err
	}
	id := resp.Identity
	return resp.Token, &id, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/register",
		path:   "/auth/register",
		body:   in,
	}, nil)
}

func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.do(ctx, call{method: http.MethodGet, route: "/users/profile", path: "/users/profile"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	addrs := []domain.Address{}
	if err := c.do(ctx, call{method: http.MethodGet, route: "/users/addresses", path: "/users/addresses"}, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (c *Client) AddAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	var saved domain.Address
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/users/addresses",
		path:   "/users/addresses",
		body:   addr,
	}, &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
