// Package home provides the dashboard page and its live profile updates.
package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/ui/features/home/pages"
	"github.com/leapstack-labs/epiprofile/internal/ui/notifier"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	profiles *profile.Source,
	cache *uploads.Cache,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(profiles, cache, notify, logger, isDev)

	router.Get("/", handlers.HomePage)
	router.Get(pages.UpdatesURL, handlers.HomePageUpdates)
	router.Get("/healthz", handlers.Health)

	return nil
}
