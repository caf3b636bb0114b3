package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus is the server-owned lifecycle state of an order. The client
// never computes transitions; it only requests them and re-fetches.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Settable reports whether an admin may set s directly. Cancellation goes
// through its own call.
func (s OrderStatus) Settable() bool {
	return s.Valid() && s != StatusCancelled
}

// Timestamp accepts both zoned RFC 3339 values and the zone-less local
// date-times some servers emit ("2024-05-01T10:15:30").
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || len(data) == 0 {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// OrderLine is one purchased product on an order.
type OrderLine struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// Order is a placed order as reported by the server.
type Order struct {
	ID                   int64       `json:"id"`
	Items                []OrderLine `json:"items"`
	TotalAmount          float64     `json:"totalAmount"`
	ShippingFullName     string      `json:"shippingFullName"`
	ShippingAddressLine1 string      `json:"shippingAddressLine1"`
	ShippingAddressLine2 string      `json:"shippingAddressLine2,omitempty"`
	ShippingCity         string      `json:"shippingCity"`
	ShippingState        string      `json:"shippingState"`
	ShippingPostalCode   string      `json:"shippingPostalCode"`
	ShippingCountry      string      `json:"shippingCountry"`
	ShippingPhone        string      `json:"shippingPhone,omitempty"`
	PaymentMethod        string      `json:"paymentMethod"`
	Status               OrderStatus `json:"status"`
	CreatedAt            Timestamp   `json:"createdAt"`
}

// CanCancel reports whether the customer may be offered cancellation.
// The server remains the authority; this only gates the action.
func (o Order) CanCancel() bool {
	return o.Status == StatusPending
}

const (
	PaymentCOD  = "COD"
	PaymentCard = "CARD"
)

// ShippingAddress is the checkout address snapshot sent with an order.
type ShippingAddress struct {
	FullName     string `json:"fullName"     validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"         validate:"required"`
	State        string `json:"state"        validate:"required"`
	PostalCode   string `json:"postalCode"   validate:"required"`
	Country      string `json:"country"      validate:"required"`
	Phone        string `json:"phone,omitempty"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"   validate:"required,oneof=COD CARD"`
}
