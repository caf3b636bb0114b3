package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/sandbox"
)

const defaultPageSize = 10

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	store *sandbox.Store
}

func NewCatalogHandler(store *sandbox.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) page(c echo.Context, keyword string) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", defaultPageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Products(keyword, page, size))
}

// ListProducts handles GET /products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        page  query     int  false  "Zero-based page index"
// @Param        size  query     int  false  "Page size"
// @Success      200   {object}  domain.Page[domain.Product]
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	return h.page(c, "")
}

// SearchProducts handles GET /products/search.
//
// @Summary      Search products by keyword
// @Tags         catalog
// @Produce      json
// @Param        keyword  query     string  false  "Substring of name or description"
// @Param        page     query     int     false  "Zero-based page index"
// @Param        size     query     int     false  "Page size"
// @Success      200      {object}  domain.Page[domain.Product]
// @Router       /products/search [get]
func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	return h.page(c, c.QueryParam("keyword"))
}

// GetProduct handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.store.Product(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Categories handles GET /categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Categories())
}

// CreateProduct handles POST /products.
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.ProductInput  true  "Product fields"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var in domain.ProductInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	p, err := h.store.CreateProduct(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles PUT /products/:id.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in domain.ProductInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	p, err := h.store.UpdateProduct(id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/:id.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteProduct(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
