package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// ProductAdmin writes the catalog on behalf of an admin.
type ProductAdmin struct {
	api      ports.ProductAdminAPI
	validate *Validator
	notify   ports.Notifier
	log      zerolog.Logger
}

func NewProductAdmin(api ports.ProductAdminAPI, notify ports.Notifier, log zerolog.Logger) *ProductAdmin {
	if notify == nil {
		notify = ports.NotifierFunc(func(domain.Notice) {})
	}
	return &ProductAdmin{api: api, validate: NewValidator(), notify: notify, log: log}
}

// check applies the product form rules and returns the message to show,
// or "" when the form is acceptable. Missing fields are reported as one
// message ahead of range violations.
func (a *ProductAdmin) check(in domain.ProductInput) string {
	err := a.validate.Validate(in)
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	switch {
	case ve.HasTag("required"):
		return "Please fill in all fields"
	case ve.Has("price", "gt"):
		return "Price must be greater than 0"
	case ve.Has("stock", "gte"):
		return "Stock cannot be negative"
	default:
		return ve.First()
	}
}

func (a *ProductAdmin) reject(msg string) error {
	a.notify.Notify(domain.Failure(msg))
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

func (a *ProductAdmin) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if msg := a.check(in); msg != "" {
		return nil, a.reject(msg)
	}
	p, err := a.api.CreateProduct(ctx, in)
	if err != nil {
		a.log.Warn().Err(err).Str("name", in.Name).Msg("create product failed")
		a.notify.Notify(domain.Failure(messageOr(err, "Failed to save product")))
		return nil, fmt.Errorf("create product: %w", err)
	}
	a.notify.Notify(domain.Success("Product added successfully!"))
	return p, nil
}

func (a *ProductAdmin) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if msg := a.check(in); msg != "" {
		return nil, a.reject(msg)
	}
	p, err := a.api.UpdateProduct(ctx, id, in)
	if err != nil {
		a.log.Warn().Err(err).Int64("product_id", id).Msg("update product failed")
		a.notify.Notify(domain.Failure(messageOr(err, "Failed to save product")))
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	a.notify.Notify(domain.Success("Product updated successfully!"))
	return p, nil
}

func (a *ProductAdmin) Delete(ctx context.Context, id int64) error {
	if err := a.api.DeleteProduct(ctx, id); err != nil {
		a.log.Warn().Err(err).Int64("product_id", id).Msg("delete product failed")
		a.notify.Notify(domain.Failure(messageOr(err, "Failed to delete product")))
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	a.notify.Notify(domain.Success("Product deleted successfully!"))
	return nil
}
