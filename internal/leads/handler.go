package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apexdigital/leadgen-platform/internal/backend"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves the admin lead-management endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Count int     `json:"count"`
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Search:  q.Get("search"),
		Status:  q.Get("status"),
		Service: q.Get("service"),
	}
}

// ListLeads handles GET /admin/leads requests. Search and exact-match
// criteria are applied in memory over the full collection, preserving
// stored order (newest first).
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "failed to list leads")
		return
	}

	filtered := filterFromQuery(r).Apply(all)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListLeadsResponse{
		Leads: filtered,
		Count: len(filtered),
	})
}

// UpdateLead handles PATCH /admin/leads/{id} requests.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing lead id", http.StatusBadRequest)
		return
	}

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lead, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeRepoError(w, err, "failed to update lead")
		return
	}

	h.logger.Info("lead updated", "id", lead.ID, "status", lead.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// DeleteLead handles DELETE /admin/leads/{id} requests.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing lead id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "failed to delete lead")
		return
	}

	h.logger.Info("lead deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV handles GET /admin/leads/export requests, producing a CSV of
// the currently filtered rows.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "failed to list leads")
		return
	}

	filtered := filterFromQuery(r).Apply(all)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	if err := WriteCSV(w, filtered); err != nil {
		h.logger.Error("failed to write csv export", "error", err)
	}
}

// writeRepoError maps repository failures to responses. Backend errors are
// surfaced verbatim with remediation so the operator can act on them.
func (h *Handler) writeRepoError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.Error(logMsg, "error", err)

	if errors.Is(err, ErrLeadNotFound) {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrReadOnlyStore) {
		http.Error(w, "leads are read-only in demo mode", http.StatusForbidden)
		return
	}

	var apiErr *backend.Error
	if errors.As(err, &apiErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{
			"error":       apiErr.Error(),
			"remediation": apiErr.Remediation(),
		})
		return
	}
	if errors.Is(err, backend.ErrNotConfigured) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	http.Error(w, logMsg, http.StatusInternalServerError)
}
