package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// RoleAdmin is the marker that admits an identity to the back-office.
	RoleAdmin Role = "ROLE_ADMIN"
	// RoleUser is the default claim sent on registration.
	RoleUser Role = "user"
)

// Role is a single normalised role marker.
//
// Servers return roles either as bare strings ("ROLE_ADMIN") or as named
// objects ({"name": "ROLE_ADMIN"}). Both shapes decode into the same value so
// nothing downstream needs to branch on the payload shape.
type Role string

func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Role(s)
		return nil
	case '{':
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &named); err != nil {
			return err
		}
		*r = Role(named.Name)
		return nil
	default:
		return fmt.Errorf("role: unsupported shape %s", data)
	}
}

// Identity is the authenticated user's profile held client-side after login.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
}

// HasRole reports whether the identity carries the given role marker.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the admin marker.
func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// Clone returns a deep copy so callers never share the roles slice.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Roles = append([]Role(nil), i.Roles...)
	return &c
}

// Address is a saved delivery address on the user's profile.
type Address struct {
	ID        int64  `json:"id,omitempty"`
	Street    string `json:"street"    validate:"required"`
	City      string `json:"city"      validate:"required"`
	State     string `json:"state"     validate:"required"`
	Pincode   string `json:"pincode"   validate:"required"`
	Country   string `json:"country"   validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

// Profile is the server-side view of the signed-in account.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	Addresses []Address `json:"addresses,omitempty"`
}
