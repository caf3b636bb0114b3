package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
)

func newAdminCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office commands (administrators only)",
	}

	orders := &cobra.Command{
		Use:   "orders",
		Short: "Manage every customer's orders",
	}
	orders.AddCommand(
		newAdminOrdersListCommand(a),
		newAdminOrdersStatusCommand(a),
		newAdminOrdersCancelCommand(a),
	)

	products := &cobra.Command{
		Use:   "products",
		Short: "Manage the catalog",
	}
	products.AddCommand(
		newAdminProductsCreateCommand(a),
		newAdminProductsUpdateCommand(a),
		newAdminProductsDeleteCommand(a),
	)

	cmd.AddCommand(orders, products, newAdminStatsCommand(a))
	return cmd
}

func parseStatus(s string) (domain.OrderStatus, error) {
	status := domain.OrderStatus(strings.ToUpper(s))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func newAdminOrdersListCommand(a *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all orders",
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			filter := domain.OrderStatus("ALL")
			if status != "" && !strings.EqualFold(status, "all") {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			orders, err := a.orders.ListAll(ctx)
			if err != nil {
				return a.report(err, "Failed to load orders")
			}
			return a.renderOrders(service.OrdersWithStatus(orders, filter), true)
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "only orders with this status")
	return cmd
}

func newAdminOrdersStatusCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set an order's status",
		Long: `Set an order's status to PENDING, PROCESSING, SHIPPED or DELIVERED.
Use 'shopctl admin orders cancel' to cancel.`,
		Args: cobra.ExactArgs(2),
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			orders, err := a.orders.UpdateStatus(ctx, orderID, status)
			if err != nil {
				return errReported
			}
			return a.renderOrders(orders, true)
		}),
	}
}

func newAdminOrdersCancelCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel any order",
		Args:  cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			orders, err := a.orders.ForceCancel(ctx, orderID)
			if err != nil {
				return errReported
			}
			return a.renderOrders(orders, true)
		}),
	}
}

type productFlags struct {
	in    domain.ProductInput
	stock int
}

func (f *productFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.in.Name, "name", "", "product name")
	fl.StringVar(&f.in.Description, "description", "", "product description")
	fl.Float64Var(&f.in.Price, "price", 0, "unit price")
	fl.IntVar(&f.stock, "stock", 0, "units in stock")
	fl.Int64Var(&f.in.CategoryID, "category", 0, "category id")
	fl.StringVar(&f.in.ImageURL, "image-url", "", "image URL")
}

// input returns the form. Stock stays unset unless the flag was given.
func (f *productFlags) input(cmd *cobra.Command) domain.ProductInput {
	in := f.in
	if cmd.Flags().Changed("stock") {
		stock := f.stock
		in.Stock = &stock
	}
	return in
}

func newAdminProductsCreateCommand(a *App) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			p, err := a.products.Create(ctx, pf.input(cmd))
			if err != nil {
				return errReported
			}
			return a.renderProducts([]domain.Product{*p}, nil)
		}),
	}
	pf.register(cmd)
	return cmd
}

func newAdminProductsUpdateCommand(a *App) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a product's details",
		Args:  cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			p, err := a.products.Update(ctx, productID, pf.input(cmd))
			if err != nil {
				return errReported
			}
			return a.renderProducts([]domain.Product{*p}, nil)
		}),
	}
	pf.register(cmd)
	return cmd
}

func newAdminProductsDeleteCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if err := a.products.Delete(ctx, productID); err != nil {
				return errReported
			}
			return nil
		}),
	}
}

func newAdminStatsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard summary",
		RunE: a.admin(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			st, err := a.stats.Compute(ctx)
			if err != nil {
				return a.report(err, "Failed to load statistics")
			}

			a.printer.Header("Overview")
			a.printer.Print("products:     %d", st.TotalProducts)
			a.printer.Print("orders:       %d", st.TotalOrders)
			a.printer.Print("revenue:      %s", money(st.Revenue))
			a.printer.Print("out of stock: %d", st.OutOfStock)

			a.printer.Header("Orders by status")
			t := a.printer.Table("Status", "Count")
			for _, s := range domain.OrderStatuses {
				t.AddRow(a.printer.Status(s), strconv.Itoa(st.OrdersByStatus[s]))
			}
			if err := t.Render(); err != nil {
				return err
			}

			if len(st.LowStock) > 0 {
				a.printer.Header("Low stock")
				if err := a.renderProducts(st.LowStock, nil); err != nil {
					return err
				}
			}

			a.printer.Header("Recent orders")
			return a.renderOrders(st.RecentOrders, true)
		}),
	}
}
