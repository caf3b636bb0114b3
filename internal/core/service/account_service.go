package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// AccountService reads the signed-in user's profile and saved addresses.
type AccountService struct {
	api      ports.AccountAPI
	session  IdentitySource
	validate *Validator
	notify   ports.Notifier
	log      zerolog.Logger
}

func NewAccountService(api ports.AccountAPI, session IdentitySource, notify ports.Notifier, log zerolog.Logger) *AccountService {
	if notify == nil {
		notify = ports.NotifierFunc(func(domain.Notice) {})
	}
	return &AccountService{api: api, session: session, validate: NewValidator(), notify: notify, log: log}
}

func (s *AccountService) Profile(ctx context.Context) (*domain.Profile, error) {
	if s.session.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.api.Profile(ctx)
}

func (s *AccountService) Addresses(ctx context.Context) ([]domain.Address, error) {
	if s.session.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.api.Addresses(ctx)
}

// AddAddress validates and saves a new address.
func (s *AccountService) AddAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	if s.session.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if err := s.validate.Validate(addr); err != nil {
		s.notify.Notify(domain.Failure(validationMessage(err)))
		return nil, err
	}
	saved, err := s.api.AddAddress(ctx, addr)
	if err != nil {
		s.log.Warn().Err(err).Msg("add address failed")
		s.notify.Notify(domain.Failure(messageOr(err, "Failed to save address")))
		return nil, fmt.Errorf("add address: %w", err)
	}
	s.notify.Notify(domain.Success("Address saved"))
	return saved, nil
}
