package generate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves the admin draft generation endpoint.
type Handler struct {
	generator *Generator
	logger    *logging.Logger
}

// NewHandler creates the generation handler.
func NewHandler(generator *Generator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{generator: generator, logger: logger}
}

type generateRequest struct {
	Topic string `json:"topic"`
}

// GenerateDraft handles POST /admin/posts/generate requests. When the
// feature is not configured the endpoint says so instead of erroring.
func (h *Handler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	draft, err := h.generator.GenerateDraft(r.Context(), req.Topic)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"enabled": false,
				"message": "Content generation is not configured. Set GENAI_API_KEY to enable drafts.",
			})
			return
		}
		h.logger.Error("draft generation failed", "error", err, "topic", req.Topic)
		http.Error(w, "failed to generate draft", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}
