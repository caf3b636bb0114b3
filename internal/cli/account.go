package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
)

func newWishlistCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage saved products",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the wishlist",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			list, err := a.wishlist.Show(ctx)
			if err != nil {
				return a.report(err, "Failed to load wishlist")
			}
			return a.renderWishlist(list)
		}),
	}

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Save a product",
		Args:  cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if !a.wishlist.Add(ctx, productID) {
				return errReported
			}
			return a.renderWishlist(a.wishlist.Wishlist())
		}),
	}

	remove := &cobra.Command{
		Use:     "remove <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved product",
		Args:    cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			if !a.wishlist.Remove(ctx, itemID) {
				return errReported
			}
			return a.renderWishlist(a.wishlist.Wishlist())
		}),
	}

	cmd.AddCommand(show, add, remove)
	return cmd
}

func (a *App) renderWishlist(list *domain.Wishlist) error {
	if list == nil || len(list.Items) == 0 {
		a.printer.Info("Your wishlist is empty")
		return nil
	}
	t := a.printer.Table("Item", "Product", "Price", "Stock")
	for _, it := range list.Items {
		if it.Product == nil {
			t.AddRow(fmtID(it.ID), "", "", "")
			continue
		}
		t.AddRow(fmtID(it.ID), it.Product.Name, money(it.Product.Price), stockLabel(it.Product.Stock))
	}
	return t.Render()
}

func newProfileCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account profile",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			p, err := a.account.Profile(ctx)
			if err != nil {
				return a.report(err, "Failed to load profile")
			}
			a.printer.Header(p.Name)
			a.printer.Print("email: %s", p.Email)
			a.printer.Print("roles: %s", roleList(p.Roles))
			if len(p.Addresses) > 0 {
				a.printer.Print("")
				return a.renderAddresses(p.Addresses)
			}
			return nil
		}),
	}
}

func newAddressesCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"address"},
		Short:   "Manage saved addresses",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved addresses",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			addrs, err := a.account.Addresses(ctx)
			if err != nil {
				return a.report(err, "Failed to load addresses")
			}
			return a.renderAddresses(addrs)
		}),
	}

	var addr domain.Address
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a new address",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := a.signedIn(); err != nil {
				return err
			}
			if _, err := a.account.AddAddress(ctx, addr); err != nil {
				return errReported
			}
			return nil
		}),
	}
	f := add.Flags()
	f.StringVar(&addr.Street, "street", "", "street address")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.State, "state", "", "state or province")
	f.StringVar(&addr.Pincode, "pincode", "", "postal code")
	f.StringVar(&addr.Country, "country", "", "country")
	f.BoolVar(&addr.IsDefault, "default", false, "make this the default address")

	cmd.AddCommand(list, add)
	return cmd
}

func (a *App) renderAddresses(addrs []domain.Address) error {
	if len(addrs) == 0 {
		a.printer.Info("No saved addresses")
		return nil
	}
	t := a.printer.Table("ID", "Street", "City", "State", "Postal code", "Country", "Default")
	for _, ad := range addrs {
		def := ""
		if ad.IsDefault {
			def = "yes"
		}
		t.AddRow(fmtID(ad.ID), ad.Street, ad.City, ad.State, ad.Pincode, ad.Country, def)
	}
	return t.Render()
}
