// Package restapi is the HTTP adapter for the storefront REST API. It
// attaches bearer credentials, encodes JSON and turns error responses into
// *APIError values carrying the server's message.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// RequestIDHeader carries a per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// ServerMessage is the message from the error payload, or "".
func (e *APIError) ServerMessage() string { return e.Message }

// Unwrap maps well-known statuses onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrNotAuthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	default:
		return nil
	}
}

// errorMessage extracts "message", falling back to "error", from a JSON
// error body.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.String() != "" {
		return m.String()
	}
	if m := gjson.GetBytes(body, "error"); m.Type == gjson.String {
		return m.String()
	}
	return ""
}

// Client issues REST calls against one base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every call. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// New builds a client. tokens may be nil for anonymous use.
func New(baseURL string, tokens ports.TokenSource, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// call describes one request. route is the path template used as a metric
// label; path is the concrete path.
type call struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
}

// send performs the request and returns the raw response body of a 2xx
// response.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reader io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("restapi: marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("restapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(cl.method, cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, "transport_error").Inc()
		c.log.Debug().Err(err).Str("method", cl.method).Str("route", cl.route).Str("request_id", reqID).Msg("request failed")
		return nil, fmt.Errorf("restapi: %s %s: %w", cl.method, cl.route, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(cl.method, cl.route, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("method", cl.method).
		Str("route", cl.route).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body), Body: body}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("restapi: read response: %w", err)
	}
	return body, nil
}

// do sends the request and decodes a JSON response into out when out is
// non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("restapi: decode %s %s: %w", cl.method, cl.route, err)
	}
	return nil
}

// decodePage accepts a paginated object or a bare array.
func decodePage[T any](body []byte) (*domain.Page[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &domain.Page[T]{Content: []T{}}, nil
	}
	if gjson.ParseBytes(trimmed).IsArray() {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return &domain.Page[T]{
			Content:       items,
			TotalElements: int64(len(items)),
			TotalPages:    1,
			Size:          len(items),
		}, nil
	}
	var page domain.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return &page, nil
}

// Ping checks that the API answers. It reads the public category list.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, call{method: http.MethodGet, route: "/categories", path: "/categories"})
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		return nil
	}
	return err
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
