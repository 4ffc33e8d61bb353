package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ericfisherdev/memorybox/internal/application"
)

const maxLoginBodyBytes = 1 << 16

// Login validates a username/password pair and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)).Decode(&req); err != nil {
		h.metrics.observeLogin("bad_request")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, application.ErrMissingCredentials):
		h.metrics.observeLogin("bad_request")
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	case errors.Is(err, application.ErrInvalidCredentials):
		h.metrics.observeLogin("invalid")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		h.metrics.observeLogin("error")
		h.logger.Error("failed to issue token", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.observeLogin("success")
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    result.Token,
		Username: result.Username,
	})
}

// Verify checks the token in the Authorization header and returns the username
// it was issued to. The "Bearer " prefix is optional. The username is not
// checked against the configured accounts.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	username, err := h.auth.VerifyToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{Valid: true, Username: username})
}
