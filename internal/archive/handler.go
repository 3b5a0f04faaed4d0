package archive

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves the admin lead snapshot endpoint.
type Handler struct {
	repo     leads.Repository
	archiver *Archiver
	logger   *logging.Logger
}

// NewHandler creates the archive handler.
func NewHandler(repo leads.Repository, archiver *Archiver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		archiver: archiver,
		logger:   logger,
	}
}

// ArchiveLeads handles POST /admin/leads/archive requests: snapshots the
// current lead list to the archive bucket.
func (h *Handler) ArchiveLeads(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("archive listing failed", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	key, err := h.archiver.ArchiveLeads(r.Context(), records)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("archive upload failed", "error", err)
		http.Error(w, "failed to archive leads", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"key":   key,
		"leads": len(records),
	})
}
