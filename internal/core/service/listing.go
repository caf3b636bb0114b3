package service

import (
	"sort"
	"strings"

	"github.com/99minutos/storefront/internal/core/domain"
)

// AllCategories matches every product in a ProductFilter.
const AllCategories = "All"

// Sort orders for product listings.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// ProductFilter narrows an already fetched product list. It never triggers
// a server call.
type ProductFilter struct {
	Search   string
	Category string
	// MaxPrice of zero disables the price bound.
	MaxPrice float64
	Sort     string
}

func (f ProductFilter) match(p domain.Product) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && p.CategoryName() != f.Category {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the matching products in the requested order. The input is
// not modified.
func (f ProductFilter) Apply(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// CategoryNames lists distinct category names in first-seen order, headed
// by AllCategories.
func CategoryNames(products []domain.Product) []string {
	names := []string{AllCategories}
	seen := make(map[string]bool)
	for _, p := range products {
		name := p.CategoryName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// VisibleOrders hides cancelled orders unless showCancelled is set. The
// second result is the number of cancelled orders.
func VisibleOrders(orders []domain.Order, showCancelled bool) ([]domain.Order, int) {
	cancelled := 0
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			cancelled++
			if !showCancelled {
				continue
			}
		}
		out = append(out, o)
	}
	return out, cancelled
}

// OrdersWithStatus filters by status. An empty status or "ALL" keeps every
// order.
func OrdersWithStatus(orders []domain.Order, status domain.OrderStatus) []domain.Order {
	if status == "" || status == "ALL" {
		return append([]domain.Order(nil), orders...)
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// CountByStatus tallies orders per status.
func CountByStatus(orders []domain.Order) map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		counts[s] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}
