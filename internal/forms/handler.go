package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/internal/observability/metrics"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// LeadNotifier alerts the team about a freshly captured lead.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead *leads.Lead) error
}

// FallbackContact is surfaced to visitors when the relay is down so the
// inquiry is never silently lost.
type FallbackContact struct {
	Email string
	Phone string
}

// Handler serves the public contact endpoint. Capture and relay are both
// attempted on every valid submission; a relay outage degrades to the
// fallback contact channel instead of failing the request.
type Handler struct {
	repo      leads.Repository
	submitter Submitter
	notifier  LeadNotifier
	fallback  FallbackContact
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithNotifier wires the new-lead email alert.
func WithNotifier(n LeadNotifier) HandlerOption {
	return func(h *Handler) { h.notifier = n }
}

// WithMetrics wires submission counters.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *logging.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// NewHandler creates the contact handler.
func NewHandler(repo leads.Repository, submitter Submitter, fallback FallbackContact, opts ...HandlerOption) *Handler {
	h := &Handler{
		repo:      repo,
		submitter: submitter,
		fallback:  fallback,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SubmitResponse is the contact endpoint response body.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"lead_id,omitempty"`
}

// SubmitContact handles POST /contact requests.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req leads.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Validation failures never reach the relay or the store.
	if err := req.Validate(); err != nil {
		h.metrics.RecordFormSubmission("invalid")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	resp := SubmitResponse{
		Success: true,
		Message: "Thanks for reaching out. We'll get back to you within one business day.",
	}

	lead, err := h.repo.Create(ctx, &req)
	switch {
	case err == nil:
		resp.LeadID = lead.ID
		h.metrics.RecordLeadCaptured()
		h.notify(ctx, lead)
	case errors.Is(err, leads.ErrReadOnlyStore):
		h.logger.Info("lead capture skipped, store is read-only", "email", req.Email)
	default:
		// Capture failure is not fatal: the relay still carries the
		// inquiry to the team's inbox.
		h.logger.Error("lead capture failed", "error", err, "email", req.Email)
	}

	if err := h.submitter.Submit(ctx, &req); err != nil {
		if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnreachable) {
			h.logger.Error("form relay unavailable", "error", err)
			h.metrics.RecordFormSubmission("fallback")
			resp.Message = fmt.Sprintf(
				"We couldn't deliver your message automatically. Please email %s or call %s and we'll take it from there.",
				h.fallback.Email, h.fallback.Phone,
			)
			writeJSON(w, http.StatusOK, resp)
			return
		}
		h.logger.Error("form submission failed", "error", err)
		h.metrics.RecordFormSubmission("error")
		http.Error(w, "failed to submit contact form", http.StatusBadGateway)
		return
	}

	h.metrics.RecordFormSubmission("ok")
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) notify(ctx context.Context, lead *leads.Lead) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.NotifyNewLead(ctx, lead); err != nil {
		h.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
