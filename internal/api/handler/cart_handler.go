package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/sandbox"
)

// CartHandler serves the caller's cart and wishlist. Every response is the
// full resource after the change.
type CartHandler struct {
	store *sandbox.Store
}

func NewCartHandler(store *sandbox.Store) *CartHandler {
	return &CartHandler{store: store}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	cart, err := h.store.Cart(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Add handles POST /cart/add?productId=&quantity=.
func (h *CartHandler) Add(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	productID, err := requiredQueryID(c, "productId")
	if err != nil {
		return err
	}
	qty, err := queryInt(c, "quantity", 1)
	if err != nil {
		return err
	}
	cart, err := h.store.AddToCart(email, productID, qty)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Update handles PUT /cart/item/:id?quantity=.
func (h *CartHandler) Update(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	qty, err := requiredQueryID(c, "quantity")
	if err != nil {
		return err
	}
	cart, err := h.store.UpdateCartItem(email, itemID, int(qty))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Remove handles DELETE /cart/item/:id.
func (h *CartHandler) Remove(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	cart, err := h.store.RemoveCartItem(email, itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Wishlist handles GET /wishlist.
func (h *CartHandler) Wishlist(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	w, err := h.store.Wishlist(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// AddToWishlist handles POST /wishlist/add?productId=.
func (h *CartHandler) AddToWishlist(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	productID, err := requiredQueryID(c, "productId")
	if err != nil {
		return err
	}
	w, err := h.store.AddToWishlist(email, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// RemoveFromWishlist handles DELETE /wishlist/item/:id.
func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.store.RemoveFromWishlist(email, itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}
