package sandbox

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/storefront/internal/core/domain"
)

// RoleCustomer is granted to every self-registered account.
const RoleCustomer domain.Role = "ROLE_USER"

// Claim names carried by sandbox tokens.
const (
	ClaimEmail = "email"
	ClaimRoles = "roles"
)

// AuthService implements registration and login.
type AuthService struct {
	store     *Store
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(store *Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a customer account. Requested role claims are ignored;
// elevated roles exist only on seeded accounts.
func (s *AuthService) Register(name, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.store.CreateUser(name, email, password, []domain.Role{RoleCustomer})
}

func (s *AuthService) Login(email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.Authenticate(email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *User) (string, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}
	claims := jwt.MapClaims{
		"sub":      user.Email,
		ClaimEmail: user.Email,
		ClaimRoles: roles,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
