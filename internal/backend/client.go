// Package backend is a thin client for the hosted collection API used when
// the service runs without its own database. Every operation checks
// configuration first and never touches the network when unconfigured.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apexdigital/leadgen-platform/internal/observability/metrics"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

var tracer = otel.Tracer("apexdigital/backend")

// tokenPrefix is the recognized prefix of hosted-backend access tokens
// (JWT-shaped anon keys).
const tokenPrefix = "eyJ"

// placeholder appears in the documented example configuration and must
// never reach the network.
const placeholder = "your-project-id"

// Config holds the hosted backend connection settings.
type Config struct {
	BaseURL string
	Token   string
}

// Validate performs the format check that gates every operation: secure
// scheme, no example placeholder, recognized token prefix. The returned
// error wraps ErrNotConfigured and carries remediation text.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" || strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: set BACKEND_BASE_URL and BACKEND_TOKEN to enable the hosted backend", ErrNotConfigured)
	}
	if strings.Contains(c.BaseURL, placeholder) {
		return fmt.Errorf("%w: BACKEND_BASE_URL still contains the example placeholder %q; replace it with your project URL", ErrNotConfigured, placeholder)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: BACKEND_BASE_URL must be a valid https URL, got %q", ErrNotConfigured, c.BaseURL)
	}
	if !strings.HasPrefix(c.Token, tokenPrefix) {
		return fmt.Errorf("%w: BACKEND_TOKEN does not look like a project access token", ErrNotConfigured)
	}
	return nil
}

// Configured reports whether the format check passes.
func (c Config) Configured() bool {
	return c.Validate() == nil
}

// Client issues list/get/insert/update/delete operations against named
// remote collections. Failures are reported synchronously as typed errors;
// nothing is retried automatically.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics wires per-operation call counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient validates the configuration and returns a client. An
// unconfigured backend yields the validation error; callers fall back to
// another data source.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches all records of a collection ordered by orderBy descending,
// decoding into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, collection, orderBy string, out any) error {
	q := url.Values{}
	q.Set("select", "*")
	if orderBy != "" {
		q.Set("order", orderBy+".desc")
	}
	return c.do(ctx, http.MethodGet, collection, q, nil, out)
}

// GetByKey looks up the single record whose key column equals value.
// Zero matches yield ErrNotFound, more than one ErrAmbiguous.
func (c *Client) GetByKey(ctx context.Context, collection, key, value string, out any) error {
	q := url.Values{}
	q.Set("select", "*")
	q.Set(key, "eq."+value)

	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, collection, q, nil, &raw); err != nil {
		return err
	}
	switch len(raw) {
	case 0:
		return fmt.Errorf("%w: %s %s=%s", ErrNotFound, collection, key, value)
	case 1:
		return json.Unmarshal(raw[0], out)
	default:
		return fmt.Errorf("%w: %s %s=%s matched %d records", ErrAmbiguous, collection, key, value, len(raw))
	}
}

// Insert creates a record and decodes the created row, including
// server-assigned id and timestamps, into out.
func (c *Client) Insert(ctx context.Context, collection string, record, out any) error {
	return c.writeOne(ctx, http.MethodPost, collection, nil, record, out)
}

// Update merges partial fields into the record with the given id and
// decodes the full updated row into out. A missing id yields ErrNotFound.
func (c *Client) Update(ctx context.Context, collection, id string, partial, out any) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.writeOne(ctx, http.MethodPatch, collection, q, partial, out)
}

// Delete removes the record with the given id permanently. A missing id
// yields ErrNotFound.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodDelete, collection, q, nil, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: %s id=%s", ErrNotFound, collection, id)
	}
	return nil
}

// writeOne issues a mutating request expecting exactly one returned row.
func (c *Client) writeOne(ctx context.Context, method, collection string, q url.Values, body, out any) error {
	var raw []json.RawMessage
	if err := c.do(ctx, method, collection, q, body, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, collection)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw[0], out)
}

func (c *Client) do(ctx context.Context, method, collection string, q url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "backend."+strings.ToLower(method))
	defer span.End()
	span.SetAttributes(attribute.String("backend.collection", collection))

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/rest/v1/" + collection
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s body: %w", collection, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.Token)
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Mutations return the affected rows so callers see
		// server-assigned fields.
		req.Header.Set("Prefer", "return=representation")
	}

	op := strings.ToLower(method)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackendLatency(op, time.Since(start))
	if err != nil {
		c.metrics.RecordBackendCall(op, "unreachable")
		return &Error{Op: method, Collection: collection, Message: err.Error()}
	}
	defer resp.Body.Close()
	c.metrics.RecordBackendCall(op, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := &Error{Op: method, Collection: collection, Status: resp.StatusCode}
		var remote struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(payload, &remote) == nil && remote.Message != "" {
			apiErr.Code = remote.Code
			apiErr.Message = remote.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(payload))
		}
		c.logger.Error("backend operation failed",
			"op", method,
			"collection", collection,
			"status", resp.StatusCode,
			"code", apiErr.Code,
		)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s response: %w", collection, err)
	}
	return nil
}
