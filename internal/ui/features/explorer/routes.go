package explorer

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/epiprofile/internal/ui/features/explorer/components"
)

// SetupRoutes registers explorer routes on the router.
func SetupRoutes(router chi.Router) error {
	handlers := NewHandlers()

	router.Get(components.URL, handlers.ExplorerSSE)

	return nil
}
