// Package forms delivers contact submissions to an external form relay
// and serves the public contact endpoint.
package forms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

var tracer = otel.Tracer("apexdigital/forms")

var (
	// ErrNotConfigured is returned when no relay endpoint is set.
	ErrNotConfigured = errors.New("forms: relay endpoint not configured")

	// ErrUnreachable is returned when the relay could not be reached.
	ErrUnreachable = errors.New("forms: relay unreachable")
)

// Submitter delivers a contact submission to the external relay.
type Submitter interface {
	Submit(ctx context.Context, req *leads.CreateLeadRequest) error
}

// Client posts submissions as multipart form data. Delivery is
// fire-and-forget: a 2xx-agnostic transport success counts as delivered
// and the response body is never read.
type Client struct {
	endpoint   string
	source     string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a relay client. An empty endpoint produces a client
// whose Submit always returns ErrNotConfigured, so callers can wire it
// unconditionally.
func NewClient(endpoint, source string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		source:   source,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit delivers the submission. The relay's response body is ignored;
// only transport-level failure is an error.
func (c *Client) Submit(ctx context.Context, req *leads.CreateLeadRequest) error {
	if c.endpoint == "" {
		return ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "forms.submit")
	defer span.End()
	span.SetAttributes(attribute.String("forms.service", req.Service))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":      req.Name,
		"email":     req.Email,
		"company":   req.Company,
		"phone":     req.Phone,
		"service":   req.Service,
		"budget":    req.Budget,
		"message":   req.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"source":    c.source,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("forms: encode field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("forms: finalize body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("forms: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	resp.Body.Close()

	c.logger.Info("form submission relayed", "email", req.Email, "service", req.Service)
	return nil
}
