package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/binstash/binstash/pkg/binstash"
)

// NewRouter assembles the full HTTP surface: the /v1/file asset
// endpoints and the /healthz probe.
func NewRouter(service binstash.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(RejectMalformedJSON)

	r.Handle("/healthz", NewHealthHandler(service))
	r.Mount("/v1/file", NewAssetsHandler(service).Routes())

	return r
}
