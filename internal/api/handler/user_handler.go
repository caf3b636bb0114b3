package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/sandbox"
)

// UserHandler serves the caller's profile and saved addresses.
type UserHandler struct {
	store *sandbox.Store
}

func NewUserHandler(store *sandbox.Store) *UserHandler {
	return &UserHandler{store: store}
}

// Profile handles GET /users/profile.
func (h *UserHandler) Profile(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	p, err := h.store.Profile(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Addresses handles GET /users/addresses.
func (h *UserHandler) Addresses(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	addrs, err := h.store.Addresses(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addrs)
}

// AddAddress handles POST /users/addresses.
func (h *UserHandler) AddAddress(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	var addr domain.Address
	if err := bindValid(c, &addr); err != nil {
		return err
	}
	saved, err := h.store.AddAddress(email, addr)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}
