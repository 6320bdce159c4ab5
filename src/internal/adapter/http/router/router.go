package router

import (
	"net/http"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(r chi.Router, guard middleware.Guard)
}

// New builds the HTTP surface. A nil guard leaves every route open, which
// tests rely on.
func New(guard middleware.Guard, registrars ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	registerSwaggerRoutes(r)

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.RegisterRoutes(r, guard)
		}
	}

	return r
}
