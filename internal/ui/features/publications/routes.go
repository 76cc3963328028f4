package publications

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

// SetupRoutes registers publications routes on the router.
func SetupRoutes(router chi.Router, cache *uploads.Cache, logger *slog.Logger) error {
	handlers := NewHandlers(cache, logger)

	router.Route("/publications", func(r chi.Router) {
		r.Post("/upload", handlers.Upload)
		r.Post("/clear", handlers.Clear)
		r.Get("/filter", handlers.FilterSSE)
	})

	return nil
}
