package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

const (
	loginFallback    = "Login failed. Please check your credentials."
	registerFallback = "Registration failed. Please try again."
)

// Result is the outcome of a session operation as shown to the user.
type Result struct {
	Success bool
	Message string
}

// RegisterForm is the sign-up form, validated before any call.
type RegisterForm struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// serverMessager is implemented by errors carrying a message from the
// server's error payload.
type serverMessager interface {
	ServerMessage() string
}

// messageOr returns the server-provided message in err, or fallback.
func messageOr(err error, fallback string) string {
	var m serverMessager
	if errors.As(err, &m) && m.ServerMessage() != "" {
		return m.ServerMessage()
	}
	return fallback
}

// SessionStore holds the authenticated identity and its credential, and
// keeps both in durable storage across runs.
type SessionStore struct {
	api      ports.AuthAPI
	storage  ports.Storage
	validate *Validator
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	token    string
	identity *domain.Identity

	subs broadcaster[*domain.Identity]
}

func NewSessionStore(api ports.AuthAPI, storage ports.Storage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		api:      api,
		storage:  storage,
		validate: NewValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Identity returns a copy of the current identity, or nil.
func (s *SessionStore) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// Token returns the current bearer credential, or "".
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn to run after every identity transition. fn gets a
// copy of the identity, nil when signed out.
func (s *SessionStore) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	return s.subs.subscribe(fn)
}

func (s *SessionStore) set(token string, id *domain.Identity) {
	s.mu.Lock()
	s.token = token
	s.identity = id.Clone()
	s.mu.Unlock()
	s.subs.publish(id.Clone())
}

// Restore loads the persisted session. It runs once at startup.
func (s *SessionStore) Restore(ctx context.Context) {
	token, tokErr := s.storage.Get(ctx, TokenKey)
	raw, userErr := s.storage.Get(ctx, UserKey)

	for _, err := range []error{tokErr, userErr} {
		if err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
			s.log.Error().Err(err).Msg("session storage unavailable; starting signed out")
			return
		}
	}

	hasToken := tokErr == nil && token != ""
	hasUser := userErr == nil && raw != ""

	if !hasToken && !hasUser {
		metrics.SessionRestoresTotal.WithLabelValues("empty").Inc()
		return
	}
	if !hasToken || !hasUser {
		s.discard(ctx, errors.New("session: token and identity must be stored together"))
		return
	}

	id, upgraded, err := decodeIdentity(raw)
	if err != nil {
		s.discard(ctx, err)
		return
	}
	if tokenExpired(token, s.now()) {
		s.discard(ctx, errors.New("session: token expired"))
		return
	}

	result := "restored"
	if upgraded {
		result = "upgraded"
		if encoded, err := encodeIdentity(id); err == nil {
			if err := s.storage.Set(ctx, UserKey, encoded); err != nil {
				s.log.Warn().Err(err).Msg("failed to rewrite upgraded identity")
			}
		}
	}
	metrics.SessionRestoresTotal.WithLabelValues(result).Inc()
	s.log.Debug().Str("result", result).Int64("user_id", id.ID).Msg("session restored")
	s.set(token, id)
}

func (s *SessionStore) discard(ctx context.Context, reason error) {
	metrics.SessionRestoresTotal.WithLabelValues("discarded").Inc()
	s.log.Info().Err(reason).Msg("discarding stored session")
	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session")
	}
}

// Login exchanges credentials for a token and identity and persists both.
func (s *SessionStore) Login(ctx context.Context, email, password string) Result {
	token, id, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return Result{Message: messageOr(err, loginFallback)}
	}
	if token == "" || id == nil {
		s.log.Warn().Str("email", email).Msg("login response missing token or identity")
		return Result{Message: loginFallback}
	}

	s.persist(ctx, token, id)
	s.set(token, id)
	s.log.Info().Int64("user_id", id.ID).Msg("signed in")
	return Result{Success: true}
}

func (s *SessionStore) persist(ctx context.Context, token string, id *domain.Identity) {
	encoded, err := encodeIdentity(id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode identity")
		return
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist token")
		return
	}
	if err := s.storage.Set(ctx, UserKey, encoded); err != nil {
		s.log.Error().Err(err).Msg("failed to persist identity")
	}
}

// Register creates an account with the default role claim. It does not
// sign the user in.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) Result {
	form := RegisterForm{Name: name, Email: email, Password: password}
	if err := s.validate.Validate(form); err != nil {
		return Result{Message: validationMessage(err)}
	}

	err := s.api.Register(ctx, ports.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     []domain.Role{domain.RoleUser},
	})
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("registration failed")
		return Result{Message: messageOr(err, registerFallback)}
	}
	return Result{Success: true, Message: "Registration successful. Please login."}
}

// Logout forgets the session locally. The server is not contacted.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.storage.Delete(ctx, TokenKey, UserKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session")
	}
	s.set("", nil)
}
