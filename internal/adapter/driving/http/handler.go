package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/memorybox/internal/application"
)

// DefaultMaxUploadBytes bounds a multipart upload body when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

const healthCheckTimeout = 2 * time.Second

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth           *application.AuthService
	memories       *application.MemoryService
	metrics        *Metrics
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. metrics may be
// nil. A non-positive maxUploadBytes selects DefaultMaxUploadBytes.
func NewHandler(
	auth *application.AuthService,
	memories *application.MemoryService,
	metrics *Metrics,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		auth:           auth,
		memories:       memories,
		metrics:        metrics,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered. Memory
// routes sit behind the bearer gate; the legacy upload route and the metrics
// endpoint sit behind the Basic gate. The whole mux is wrapped with CORS,
// logging, metrics and recovery middleware.
func NewServeMux(h *Handler, corsOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/verify", h.Verify)
	mux.HandleFunc("GET /health", h.Health)

	bearer := BearerAuth(h.auth, logger)
	mux.Handle("GET /api/memories", bearer(http.HandlerFunc(h.ListMemories)))
	mux.Handle("GET /api/memories/{id}", bearer(http.HandlerFunc(h.GetMemory)))
	mux.Handle("POST /api/memories/upload", bearer(http.HandlerFunc(h.UploadMemory)))
	mux.Handle("PUT /api/memories/{id}", bearer(http.HandlerFunc(h.UpdateMemory)))
	mux.Handle("DELETE /api/memories/{id}", bearer(http.HandlerFunc(h.DeleteMemory)))

	basic := BasicAuth(h.auth, logger)
	mux.Handle("POST /api/legacy/memories/upload", basic(http.HandlerFunc(h.UploadMemory)))
	if h.metrics != nil {
		mux.Handle("GET /metrics", basic(h.metrics.Handler()))
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = metricsMiddleware(h.metrics, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = corsMiddleware(corsOrigins, wrapped)

	return wrapped
}

// Health reports process liveness and memory store connectivity. It always
// answers 200 so a disconnected database is visible without failing probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	database := "disconnected"
	if h.memories.Healthy(ctx) {
		database = "connected"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Message:  "Server is running",
		Database: database,
	})
}
