package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves the admin login and logout endpoints.
type Handler struct {
	authenticator *Authenticator
	sessionTTL    time.Duration
	logger        *logging.Logger
}

// NewHandler creates the auth handler.
func NewHandler(authenticator *Authenticator, sessionTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		authenticator: authenticator,
		sessionTTL:    sessionTTL,
		logger:        logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /admin/login requests. Every failure mode returns
// the same generic message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.authenticator == nil {
		http.Error(w, "admin login disabled", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.authenticator.Authenticate(req.Username, req.Password)
	if err != nil {
		h.logger.Info("admin login rejected", "username", req.Username)
		http.Error(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	h.logger.Info("admin login", "username", req.Username)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.sessionTTL),
	})
}

// Logout handles POST /admin/logout requests. Tokens are stateless, so
// logout is a client-side discard; the endpoint exists so the dashboard
// has a concrete action to call.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
