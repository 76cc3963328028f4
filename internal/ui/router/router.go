// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/epiprofile/internal/profile"
	explorerFeature "github.com/leapstack-labs/epiprofile/internal/ui/features/explorer"
	homeFeature "github.com/leapstack-labs/epiprofile/internal/ui/features/home"
	publicationsFeature "github.com/leapstack-labs/epiprofile/internal/ui/features/publications"
	"github.com/leapstack-labs/epiprofile/internal/ui/notifier"
	"github.com/leapstack-labs/epiprofile/internal/ui/resources"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

// Deps are the shared services handed to every feature.
type Deps struct {
	Profiles *profile.Source
	Uploads  *uploads.Cache
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	IsDev    bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, deps.Profiles, deps.Uploads, deps.Notifier, deps.Logger, deps.IsDev); err != nil {
		return err
	}

	if err := publicationsFeature.SetupRoutes(router, deps.Uploads, deps.Logger); err != nil {
		return err
	}

	if err := explorerFeature.SetupRoutes(router); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
