package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"

	"github.com/99minutos/storefront/internal/core/domain"
)

// Durable storage keys.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// sessionSchema is the current envelope version written under UserKey.
// Version 1 is the bare identity object without an envelope.
const sessionSchema = 2

var (
	errLegacyIdentity = errors.New("session: legacy identity shape")
	errUnknownSchema  = errors.New("session: unknown schema")
	errMalformed      = errors.New("session: malformed identity")
)

type sessionEnvelope struct {
	Schema   int              `json:"schema"`
	Identity *domain.Identity `json:"identity"`
}

func encodeIdentity(id *domain.Identity) (string, error) {
	b, err := json.Marshal(sessionEnvelope{Schema: sessionSchema, Identity: id})
	if err != nil {
		return "", fmt.Errorf("session: encode identity: %w", err)
	}
	return string(b), nil
}

// decodeIdentity reads a stored identity of any known schema. upgraded is
// true when the value was written by an older schema and must be rewritten.
func decodeIdentity(raw string) (id *domain.Identity, upgraded bool, err error) {
	if !gjson.Valid(raw) {
		return nil, false, errMalformed
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, false, errMalformed
	}

	schema := doc.Get("schema")
	if !schema.Exists() {
		// Schema 1 stored the identity directly. Entries without a display
		// name predate it and are not trusted.
		if doc.Get("name").String() == "" {
			return nil, false, errLegacyIdentity
		}
		id, err = unmarshalIdentity(raw)
		return id, true, err
	}

	if schema.Int() != sessionSchema {
		return nil, false, fmt.Errorf("%w: %s", errUnknownSchema, schema.Raw)
	}
	body := doc.Get("identity")
	if !body.IsObject() || body.Get("name").String() == "" {
		return nil, false, errMalformed
	}
	id, err = unmarshalIdentity(body.Raw)
	return id, false, err
}

func unmarshalIdentity(raw string) (*domain.Identity, error) {
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return &id, nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; opaque tokens never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
