package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
)

func parseID(arg, what string) (int64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return v, nil
}

func newProductsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse the catalog",
	}
	cmd.AddCommand(
		newProductsListCommand(a),
		newProductsShowCommand(a),
		newProductsSearchCommand(a),
		newProductsFeaturedCommand(a),
	)
	return cmd
}

type pageFlags struct {
	page int
	size int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&f.size, "size", service.DefaultPageSize, "page size")
}

type filterFlags struct {
	search   string
	category string
	maxPrice float64
	sort     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "keep products whose name contains this text")
	cmd.Flags().StringVar(&f.category, "category", service.AllCategories, "keep products in this category")
	cmd.Flags().Float64Var(&f.maxPrice, "max-price", 0, "keep products at or below this price (0 disables)")
	cmd.Flags().StringVar(&f.sort, "sort", service.SortFeatured, "featured, price-asc or price-desc")
}

func (f *filterFlags) filter() (service.ProductFilter, error) {
	switch f.sort {
	case service.SortFeatured, service.SortPriceAsc, service.SortPriceDesc:
	default:
		return service.ProductFilter{}, fmt.Errorf("invalid sort %q: must be featured, price-asc or price-desc", f.sort)
	}
	return service.ProductFilter{
		Search:   f.search,
		Category: f.category,
		MaxPrice: f.maxPrice,
		Sort:     f.sort,
	}, nil
}

func newProductsListCommand(a *App) *cobra.Command {
	var pf pageFlags
	var ff filterFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a page of products",
		Long: `List one page of products. Filters apply to the fetched page only.

Examples:
  shopctl products list
  shopctl products list --category Electronics --sort price-desc
  shopctl products list --search shirt --max-price 50`,
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			filter, err := ff.filter()
			if err != nil {
				return err
			}
			page, err := a.catalog.ListProducts(ctx, pf.page, pf.size)
			if err != nil {
				return a.report(err, "Failed to load products")
			}
			return a.renderProducts(filter.Apply(page.Content), page)
		}),
	}
	pf.register(cmd)
	ff.register(cmd)
	return cmd
}

func newProductsSearchCommand(a *App) *cobra.Command {
	var pf pageFlags
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search products by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			page, err := a.catalog.SearchProducts(ctx, args[0], pf.page, pf.size)
			if err != nil {
				return a.report(err, "Search failed")
			}
			if len(page.Content) == 0 {
				a.printer.Info("No products match %q", args[0])
				return nil
			}
			return a.renderProducts(page.Content, page)
		}),
	}
	pf.register(cmd)
	return cmd
}

func newProductsFeaturedCommand(a *App) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the home-page selection",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return a.renderProducts(a.catalog.Featured(ctx, count), nil)
		}),
	}
	cmd.Flags().IntVar(&count, "count", service.FeaturedCount, "number of products")
	return cmd
}

func newProductsShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			p, err := a.catalog.GetProduct(ctx, productID)
			if err != nil {
				return a.report(err, "Product not found")
			}
			a.printer.Header(p.Name)
			a.printer.Print("id:       %d", p.ID)
			a.printer.Print("price:    %s", money(p.Price))
			a.printer.Print("stock:    %s", stockLabel(p.Stock))
			a.printer.Print("category: %s", p.CategoryName())
			if p.Description != "" {
				a.printer.Print("\n%s", p.Description)
			}
			return nil
		}),
	}
}

func newCategoriesCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			cats, err := a.catalog.Categories(ctx)
			if err != nil {
				return a.report(err, "Failed to load categories")
			}
			t := a.printer.Table("ID", "Name", "Description")
			for _, c := range cats {
				t.AddRow(fmtID(c.ID), c.Name, c.Description)
			}
			return t.Render()
		}),
	}
}

func stockLabel(stock int) string {
	if stock == 0 {
		return "out of stock"
	}
	return strconv.Itoa(stock)
}

func (a *App) renderProducts(products []domain.Product, page *domain.Page[domain.Product]) error {
	if len(products) == 0 {
		a.printer.Info("No products found")
		return nil
	}
	t := a.printer.Table("ID", "Name", "Category", "Price", "Stock")
	for _, p := range products {
		name := p.Name
		if p.Placeholder {
			name += " (sample)"
		}
		t.AddRow(fmtID(p.ID), name, p.CategoryName(), money(p.Price), stockLabel(p.Stock))
	}
	if err := t.Render(); err != nil {
		return err
	}
	if page != nil && page.TotalPages > 1 {
		a.printer.Print("\npage %d of %d (%d products)", page.Number+1, page.TotalPages, page.TotalElements)
	}
	return nil
}
