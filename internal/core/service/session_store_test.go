package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
)

func newTestSession(api *stubAuthAPI, store *stubStorage) *SessionStore {
	return NewSessionStore(api, store, zerolog.Nop())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestSessionStore_Login_ThenRestore(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{
		token: "opaque-token",
		identity: &domain.Identity{
			ID: 7, Name: "Alice", Email: "alice@example.com",
			Roles: []domain.Role{domain.RoleAdmin},
		},
	}

	s := newTestSession(api, store)
	res := s.Login(context.Background(), "alice@example.com", "secret1")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if s.Token() != "opaque-token" {
		t.Fatalf("unexpected token: %q", s.Token())
	}

	raw := store.data[UserKey]
	if !json.Valid([]byte(raw)) {
		t.Fatalf("stored identity is not json: %s", raw)
	}
	var env map[string]any
	_ = json.Unmarshal([]byte(raw), &env)
	if _, ok := env["token"]; ok {
		t.Fatalf("token must not be stored inside the identity")
	}

	restored := newTestSession(&stubAuthAPI{}, store)
	restored.Restore(context.Background())

	got := restored.Identity()
	if got == nil {
		t.Fatalf("expected restored identity")
	}
	if got.ID != 7 || got.Name != "Alice" || got.Email != "alice@example.com" || !got.IsAdmin() {
		t.Fatalf("restored identity mismatch: %+v", got)
	}
	if restored.Token() != "opaque-token" {
		t.Fatalf("restored token mismatch: %q", restored.Token())
	}
}

func TestSessionStore_Login_ServerMessage(t *testing.T) {
	api := &stubAuthAPI{loginErr: &apiError{status: 401, msg: "Invalid email or password"}}
	s := newTestSession(api, newStubStorage())

	res := s.Login(context.Background(), "a@b.com", "nope")
	if res.Success || res.Message != "Invalid email or password" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if s.Identity() != nil {
		t.Fatalf("identity must stay empty after failed login")
	}
}

func TestSessionStore_Login_FallbackMessage(t *testing.T) {
	api := &stubAuthAPI{loginErr: errTransport}
	s := newTestSession(api, newStubStorage())

	res := s.Login(context.Background(), "a@b.com", "nope")
	if res.Success || res.Message != loginFallback {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSessionStore_Register_PasswordLength(t *testing.T) {
	api := &stubAuthAPI{}
	s := newTestSession(api, newStubStorage())

	res := s.Register(context.Background(), "Alice", "alice@example.com", "12345")
	if res.Success {
		t.Fatalf("expected rejection for 5-char password")
	}
	if api.registerCalls != 0 {
		t.Fatalf("expected no network call, got %d", api.registerCalls)
	}
	if res.Message != "password must be at least 6 characters" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	res = s.Register(context.Background(), "Alice", "alice@example.com", "123456")
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if api.registerCalls != 1 {
		t.Fatalf("expected one network call, got %d", api.registerCalls)
	}
	if len(api.lastRegister.Role) != 1 || api.lastRegister.Role[0] != domain.RoleUser {
		t.Fatalf("expected default role claim, got %v", api.lastRegister.Role)
	}
	if s.Identity() != nil {
		t.Fatalf("registration must not sign in")
	}
}

func TestSessionStore_Register_ServerFailure(t *testing.T) {
	api := &stubAuthAPI{registerErr: &apiError{status: 400, msg: "Email is already in use"}}
	s := newTestSession(api, newStubStorage())

	res := s.Register(context.Background(), "Alice", "alice@example.com", "123456")
	if res.Success || res.Message != "Email is already in use" {
		t.Fatalf("unexpected result: %+v", res)
	}

	api.registerErr = errTransport
	res = s.Register(context.Background(), "Alice", "alice@example.com", "123456")
	if res.Message != registerFallback {
		t.Fatalf("expected fallback, got %q", res.Message)
	}
}

func TestSessionStore_Logout_ClearsStorageWithoutCall(t *testing.T) {
	store := newStubStorage()
	api := &stubAuthAPI{token: "t", identity: shopper()}
	s := newTestSession(api, store)
	s.Login(context.Background(), "alice@example.com", "secret1")

	var seen []*domain.Identity
	s.Subscribe(func(id *domain.Identity) { seen = append(seen, id) })

	s.Logout(context.Background())

	if s.Identity() != nil || s.Token() != "" {
		t.Fatalf("expected signed-out state")
	}
	if store.has(TokenKey) || store.has(UserKey) {
		t.Fatalf("expected storage cleared")
	}
	if api.loginCalls != 1 {
		t.Fatalf("logout must not call the server")
	}
	if len(seen) != 1 || seen[0] != nil {
		t.Fatalf("expected one nil notification, got %v", seen)
	}
}

func TestSessionStore_Restore_LegacyShapeDiscarded(t *testing.T) {
	store := newStubStorage()
	store.data[TokenKey] = "t"
	store.data[UserKey] = `{"id":3,"username":"bob","email":"bob@example.com","roles":["user"]}`

	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore(context.Background())

	if s.Identity() != nil || s.Token() != "" {
		t.Fatalf("expected unauthenticated state")
	}
	if store.has(TokenKey) || store.has(UserKey) {
		t.Fatalf("expected legacy credential and identity cleared")
	}
}

func TestSessionStore_Restore_UpgradesBareIdentity(t *testing.T) {
	store := newStubStorage()
	store.data[TokenKey] = "t"
	store.data[UserKey] = `{"id":3,"name":"Bob","email":"bob@example.com","roles":[{"name":"ROLE_ADMIN"}]}`

	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore(context.Background())

	id := s.Identity()
	if id == nil || id.Name != "Bob" || !id.IsAdmin() {
		t.Fatalf("expected upgraded identity, got %+v", id)
	}
	var env sessionEnvelope
	if err := json.Unmarshal([]byte(store.data[UserKey]), &env); err != nil {
		t.Fatalf("rewritten value invalid: %v", err)
	}
	if env.Schema != sessionSchema || env.Identity == nil || env.Identity.Name != "Bob" {
		t.Fatalf("expected rewrite to current schema, got %+v", env)
	}
}

func TestSessionStore_Restore_Discards(t *testing.T) {
	cases := map[string]map[string]string{
		"identity without token": {UserKey: `{"schema":2,"identity":{"id":1,"name":"A"}}`},
		"token without identity": {TokenKey: "t"},
		"malformed json":         {TokenKey: "t", UserKey: `{"schema":2,`},
		"future schema":          {TokenKey: "t", UserKey: `{"schema":9,"identity":{"id":1,"name":"A"}}`},
		"array":                  {TokenKey: "t", UserKey: `[1,2]`},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			store := newStubStorage()
			for k, v := range data {
				store.data[k] = v
			}
			s := newTestSession(&stubAuthAPI{}, store)
			s.Restore(context.Background())
			if s.Identity() != nil {
				t.Fatalf("expected no identity")
			}
			if store.has(TokenKey) || store.has(UserKey) {
				t.Fatalf("expected storage cleared")
			}
		})
	}
}

func TestSessionStore_Restore_ExpiredToken(t *testing.T) {
	store := newStubStorage()
	store.data[TokenKey] = signedToken(t, time.Now().Add(-time.Hour))
	store.data[UserKey] = `{"schema":2,"identity":{"id":1,"name":"A","email":"a@b.com","roles":["user"]}}`

	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore(context.Background())
	if s.Identity() != nil {
		t.Fatalf("expired session must be discarded")
	}

	store.data[TokenKey] = signedToken(t, time.Now().Add(time.Hour))
	store.data[UserKey] = `{"schema":2,"identity":{"id":1,"name":"A","email":"a@b.com","roles":["user"]}}`
	s = newTestSession(&stubAuthAPI{}, store)
	s.Restore(context.Background())
	if s.Identity() == nil {
		t.Fatalf("valid session must be restored")
	}
}

func TestSessionStore_Restore_StorageUnavailable(t *testing.T) {
	store := newStubStorage()
	store.data[TokenKey] = "t"
	store.err = errors.New("redis: connection refused")

	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore(context.Background())
	if s.Identity() != nil {
		t.Fatalf("expected signed-out state")
	}

	store.err = nil
	if !store.has(TokenKey) {
		t.Fatalf("stored data must survive an unavailable backend")
	}
}
