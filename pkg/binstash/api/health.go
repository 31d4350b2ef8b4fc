package api

import (
	"log/slog"
	"net/http"

	"github.com/binstash/binstash/pkg/binstash"
)

// HealthHandler implements the liveness probe. Every response carries
// no-cache headers; a probe must never be served from a cache.
type HealthHandler struct {
	service binstash.Service
}

func NewHealthHandler(service binstash.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// ServeHTTP handles all methods on the health path so that non-GET
// requests get a 405 instead of a router-level 404.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setNoCacheHeaders(w)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// The probe takes no input at all: any query parameter or body
	// byte means a malformed caller.
	if len(r.URL.Query()) > 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if r.Body != nil {
		buf := make([]byte, 1)
		if n, _ := r.Body.Read(buf); n > 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	if err := h.service.HealthCheck(r.Context()); err != nil {
		slog.Error("Health check audit write failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func setNoCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
}
