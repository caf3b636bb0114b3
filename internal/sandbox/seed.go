package sandbox

import (
	"errors"
	"fmt"

	"github.com/99minutos/storefront/internal/core/domain"
)

type seedProduct struct {
	name, description, category, image string
	price                              float64
	stock                              int
}

var seedProducts = []seedProduct{
	{"Premium Smartphone", "Latest model with high-res camera and fast processor.", "Electronics", "https://placehold.co/600x400/png?text=Smartphone", 999.99, 50},
	{"Ultra Slim Laptop", "Lightweight laptop for professionals.", "Electronics", "https://placehold.co/600x400/png?text=Laptop", 1299.00, 30},
	{"Classic White T-Shirt", "100% Cotton, comfortable fit.", "Fashion", "https://placehold.co/600x400/png?text=T-Shirt", 29.99, 100},
}

// Seed loads the starter catalog and the admin account. Running it against
// a store that already holds the admin is a no-op for the account.
func Seed(s *Store, adminEmail, adminPassword string) error {
	cats := map[string]int64{}
	if len(s.Categories()) == 0 {
		cats["Electronics"] = s.AddCategory("Electronics", "Gadgets and devices").ID
		cats["Fashion"] = s.AddCategory("Fashion", "Clothing and accessories").ID

		for _, sp := range seedProducts {
			stock := sp.stock
			_, err := s.CreateProduct(domain.ProductInput{
				Name:        sp.name,
				Description: sp.description,
				Price:       sp.price,
				Stock:       &stock,
				CategoryID:  cats[sp.category],
				ImageURL:    sp.image,
			})
			if err != nil {
				return fmt.Errorf("seed product %q: %w", sp.name, err)
			}
		}
	}

	_, err := s.CreateUser("Admin", adminEmail, adminPassword, []domain.Role{RoleCustomer, domain.RoleAdmin})
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
