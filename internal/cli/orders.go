package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
)

const dateLayout = "2006-01-02 15:04"

func newCheckoutCommand(a *App) *cobra.Command {
	var form domain.OrderRequest
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Long: `Place an order for everything in the cart.

Example:
  shopctl checkout --full-name "Jane Doe" --address-line1 "1 Main St" \
    --city Springfield --state IL --postal-code 62701 --country US --payment CARD`,
		RunE: a.withCart(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			form.PaymentMethod = strings.ToUpper(form.PaymentMethod)
			order, err := a.orders.PlaceOrder(ctx, form)
			if err != nil {
				return errReported
			}
			return a.renderOrder(order)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.ShippingAddress.FullName, "full-name", "", "recipient name")
	f.StringVar(&form.ShippingAddress.AddressLine1, "address-line1", "", "street address")
	f.StringVar(&form.ShippingAddress.AddressLine2, "address-line2", "", "apartment, suite, etc.")
	f.StringVar(&form.ShippingAddress.City, "city", "", "city")
	f.StringVar(&form.ShippingAddress.State, "state", "", "state or province")
	f.StringVar(&form.ShippingAddress.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&form.ShippingAddress.Country, "country", "", "country")
	f.StringVar(&form.ShippingAddress.Phone, "phone", "", "contact phone")
	f.StringVar(&form.PaymentMethod, "payment", domain.PaymentCOD, "payment method: COD or CARD")
	return cmd
}

func newOrdersCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Review your orders",
	}
	cmd.AddCommand(
		newOrdersListCommand(a),
		newOrdersShowCommand(a),
		newOrdersCancelCommand(a),
	)
	return cmd
}

func newOrdersListCommand(a *App) *cobra.Command {
	var showCancelled bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your orders",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			orders, err := a.orders.ListMine(ctx)
			if err != nil {
				return a.report(err, "Failed to load orders")
			}
			visible, cancelled := service.VisibleOrders(orders, showCancelled)
			if err := a.renderOrders(visible, false); err != nil {
				return err
			}
			if cancelled > 0 && !showCancelled {
				a.printer.Print("\n%d cancelled orders hidden (use --show-cancelled)", cancelled)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&showCancelled, "show-cancelled", false, "include cancelled orders")
	return cmd
}

func newOrdersShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			if err := a.signedIn(); err != nil {
				return err
			}
			order, err := a.orders.Get(ctx, orderID)
			if err != nil {
				return a.report(err, "Order not found")
			}
			return a.renderOrder(order)
		}),
	}
}

func newOrdersCancelCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			if err := a.signedIn(); err != nil {
				return err
			}
			order, err := a.orders.Get(ctx, orderID)
			if err != nil {
				return a.report(err, "Order not found")
			}
			updated, err := a.orders.Cancel(ctx, *order)
			if err != nil {
				return errReported
			}
			return a.renderOrder(updated)
		}),
	}
}

func itemCount(o domain.Order) int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

func (a *App) renderOrders(orders []domain.Order, withCustomer bool) error {
	if len(orders) == 0 {
		a.printer.Info("No orders found")
		return nil
	}
	headers := []string{"ID", "Date", "Items", "Total", "Payment", "Status"}
	if withCustomer {
		headers = append(headers, "Ship to")
	}
	t := a.printer.Table(headers...)
	for _, o := range orders {
		row := []string{
			fmtID(o.ID),
			o.CreatedAt.Local().Format(dateLayout),
			strconv.Itoa(itemCount(o)),
			money(o.TotalAmount),
			o.PaymentMethod,
			a.printer.Status(o.Status),
		}
		if withCustomer {
			row = append(row, o.ShippingFullName+", "+o.ShippingCity)
		}
		t.AddRow(row...)
	}
	return t.Render()
}

func (a *App) renderOrder(o *domain.Order) error {
	a.printer.Header("Order #" + fmtID(o.ID))
	a.printer.Print("status:   %s", a.printer.Status(o.Status))
	a.printer.Print("placed:   %s", o.CreatedAt.Local().Format(dateLayout))
	a.printer.Print("payment:  %s", o.PaymentMethod)
	a.printer.Print("ship to:  %s, %s, %s, %s %s, %s",
		o.ShippingFullName, o.ShippingAddressLine1, o.ShippingCity,
		o.ShippingState, o.ShippingPostalCode, o.ShippingCountry)
	a.printer.Print("")

	t := a.printer.Table("Product", "Qty", "Price", "Subtotal")
	for _, l := range o.Items {
		name := ""
		if l.Product != nil {
			name = l.Product.Name
		}
		t.AddRow(name, strconv.Itoa(l.Quantity), money(l.Price), money(l.Price*float64(l.Quantity)))
	}
	if err := t.Render(); err != nil {
		return err
	}
	a.printer.Print("\ntotal %s", money(o.TotalAmount))
	if o.CanCancel() {
		a.printer.Print("cancel with: shopctl orders cancel %d", o.ID)
	}
	return nil
}
