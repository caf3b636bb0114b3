package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// RegisterInput is the registration payload. Role always carries the default
// claim; elevated roles are granted server-side.
type RegisterInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     []domain.Role `json:"role"`
}

// AuthAPI is the authentication endpoint pair.
type AuthAPI interface {
	// Login returns the bearer token and the identity carried alongside it.
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
	Register(ctx context.Context, in RegisterInput) error
}

// AccountAPI exposes the signed-in user's profile and saved addresses.
type AccountAPI interface {
	Profile(ctx context.Context) (*domain.Profile, error)
	Addresses(ctx context.Context) ([]domain.Address, error)
	AddAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)
}

// TokenSource yields the credential attached to authenticated calls.
type TokenSource interface {
	Token() string
}
