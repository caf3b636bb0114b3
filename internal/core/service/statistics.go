package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

const (
	statsProductPageSize = 1000
	lowStockThreshold    = 10
	recentOrderCount     = 10
)

// Statistics summarises the store for the admin dashboard.
type Statistics struct {
	TotalProducts  int
	TotalOrders    int
	OrdersByStatus map[domain.OrderStatus]int
	// Revenue excludes cancelled orders.
	Revenue      float64
	LowStock     []domain.Product
	OutOfStock   int
	RecentOrders []domain.Order
}

// StatisticsService computes dashboard figures from the product and order
// listings.
type StatisticsService struct {
	catalog ports.CatalogAPI
	orders  ports.OrderAPI
}

func NewStatisticsService(catalog ports.CatalogAPI, orders ports.OrderAPI) *StatisticsService {
	return &StatisticsService{catalog: catalog, orders: orders}
}

// Compute fetches products and all orders concurrently.
func (s *StatisticsService) Compute(ctx context.Context) (*Statistics, error) {
	var (
		products []domain.Product
		orders   []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.catalog.ListProducts(gctx, 0, statsProductPageSize)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if page != nil {
			products = page.Content
		}
		return nil
	})
	g.Go(func() error {
		all, err := s.orders.ListAllOrders(gctx)
		if err != nil {
			return fmt.Errorf("list orders: %w", err)
		}
		orders = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarise(products, orders), nil
}

// Summarise computes statistics over already fetched lists.
func Summarise(products []domain.Product, orders []domain.Order) *Statistics {
	st := &Statistics{
		TotalProducts:  len(products),
		TotalOrders:    len(orders),
		OrdersByStatus: CountByStatus(orders),
		LowStock:       []domain.Product{},
	}

	for _, o := range orders {
		if o.Status != domain.StatusCancelled {
			st.Revenue += o.TotalAmount
		}
	}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			st.LowStock = append(st.LowStock, p)
		}
		if p.Stock == 0 {
			st.OutOfStock++
		}
	}

	recent := append([]domain.Order(nil), orders...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt.Time)
	})
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}
	st.RecentOrders = recent
	return st
}
