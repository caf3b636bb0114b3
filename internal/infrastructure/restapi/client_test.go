package restapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens ports.TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", tokens, zerolog.Nop())
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(RequestIDHeader)
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":1,"items":[]}`)
	}, staticToken("tok-123"))

	cart, err := c.AddItem(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("expected request id header")
	}
	if gotPath != "/api/cart/add" || gotQuery != "productId=7&quantity=2" {
		t.Fatalf("unexpected request: %s?%s", gotPath, gotQuery)
	}
	if cart.ID != 1 || cart.Items == nil {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	seen := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth, seen = r.Header.Get("Authorization"), true
		io.WriteString(w, `[]`)
	}, staticToken(""))

	if _, err := c.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !seen || gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_ErrorPayloads(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantIs  error
	}{
		{"message field", http.StatusBadRequest, `{"message":"Cart is empty"}`, "Cart is empty", nil},
		{"error field fallback", http.StatusConflict, `{"error":"user already exists"}`, "user already exists", nil},
		{"plain text body", http.StatusInternalServerError, `boom`, "", nil},
		{"unauthorized", http.StatusUnauthorized, `{"message":"invalid token"}`, "invalid token", domain.ErrNotAuthenticated},
		{"forbidden", http.StatusForbidden, `{}`, "", domain.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}, nil)

			_, err := c.GetCart(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, apiErr.Status)
			}
			if apiErr.ServerMessage() != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, apiErr.ServerMessage())
			}
			if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
				t.Fatalf("expected errors.Is %v", tc.wantIs)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, zerolog.Nop())
	_, err := c.GetCart(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError")
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(srv.URL, nil, zerolog.Nop(), WithTimeout(50*time.Millisecond))
	if _, err := c.GetCart(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestDecodePage(t *testing.T) {
	page, err := decodePage[domain.Product]([]byte(`[{"id":1},{"id":2}]`))
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(page.Content) != 2 || page.TotalElements != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected array page: %+v", page)
	}

	page, err = decodePage[domain.Product]([]byte(`{"content":[{"id":3}],"totalElements":11,"totalPages":6,"number":5,"size":2}`))
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if len(page.Content) != 1 || page.TotalElements != 11 || page.Number != 5 {
		t.Fatalf("unexpected object page: %+v", page)
	}

	page, err = decodePage[domain.Product]([]byte(`{"totalElements":0}`))
	if err != nil || page.Content == nil {
		t.Fatalf("expected non-nil empty content, got %+v %v", page, err)
	}

	if _, err := decodePage[domain.Product]([]byte(`{"content":"nope"}`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestClient_Ping(t *testing.T) {
	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)
	if err := ok.Ping(context.Background()); err != nil {
		t.Fatalf("4xx should count as reachable: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)
	if err := down.Ping(context.Background()); err == nil {
		t.Fatalf("5xx should fail ping")
	}
}

func TestClient_UpdateOrderStatusBody(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		if r.Method != http.MethodPut || r.URL.Path != "/api/orders/42/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"id":42,"status":"SHIPPED"}`)
	}, staticToken("admin"))

	o, err := c.UpdateOrderStatus(context.Background(), 42, domain.StatusShipped)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if body != `{"status":"SHIPPED"}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if o.Status != domain.StatusShipped {
		t.Fatalf("unexpected order: %+v", o)
	}
}
