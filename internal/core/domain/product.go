package domain

// Category groups products in the catalog.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog entry. Read-only for shoppers; written only through
// the admin product writer.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    *Category `json:"category,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	// Placeholder marks filler content substituted when the catalog is
	// unreachable or too small for the featured grid.
	Placeholder bool `json:"-"`
}

// CategoryName returns the category name or "" when uncategorised.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       *int    `json:"stock"       validate:"required,gte=0"`
	CategoryID  int64   `json:"categoryId"  validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"    validate:"required"`
}
