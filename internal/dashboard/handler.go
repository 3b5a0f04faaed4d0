package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves GET /admin/dashboard.
type Handler struct {
	aggregator Aggregator
	logger     *logging.Logger
}

// NewHandler creates the dashboard handler.
func NewHandler(aggregator Aggregator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{aggregator: aggregator, logger: logger}
}

// GetStats handles the dashboard summary request.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.aggregator.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		http.Error(w, "failed to compute dashboard stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
