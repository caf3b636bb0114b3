package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
)

func newCartCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(
		newCartShowCommand(a),
		newCartAddCommand(a),
		newCartUpdateCommand(a),
		newCartRemoveCommand(a),
	)
	return cmd
}

func newCartShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: a.withCart(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			return a.renderCart(a.cart.Cart())
		}),
	}
}

func newCartAddCommand(a *App) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: a.withCart(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if !a.cart.AddToCart(ctx, productID, quantity) {
				return errReported
			}
			return a.renderCart(a.cart.Cart())
		}),
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity to add")
	return cmd
}

func newCartUpdateCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: a.withCart(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if !a.cart.UpdateQuantity(ctx, itemID, quantity) {
				return errReported
			}
			return a.renderCart(a.cart.Cart())
		}),
	}
}

func newCartRemoveCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: a.withCart(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			if !a.cart.RemoveFromCart(ctx, itemID) {
				return errReported
			}
			return a.renderCart(a.cart.Cart())
		}),
	}
}

func (a *App) renderCart(cart *domain.Cart) error {
	if cart == nil || len(cart.Items) == 0 {
		a.printer.Info("Your cart is empty")
		return nil
	}
	t := a.printer.Table("Item", "Product", "Unit", "Qty", "Subtotal")
	for _, it := range cart.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		unit := it.UnitPrice()
		t.AddRow(fmtID(it.ID), name, money(unit), strconv.Itoa(it.Quantity), money(unit*float64(it.Quantity)))
	}
	if err := t.Render(); err != nil {
		return err
	}
	a.printer.Print("\n%d items, total %s", cart.TotalItems(), money(cart.TotalPrice()))
	return nil
}
