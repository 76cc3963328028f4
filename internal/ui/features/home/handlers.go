package home

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/ui/features/home/pages"
	"github.com/leapstack-labs/epiprofile/internal/ui/notifier"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	profiles *profile.Source
	uploads  *uploads.Cache
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(profiles *profile.Source, cache *uploads.Cache, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	return &Handlers{
		profiles: profiles,
		uploads:  cache,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// HomePage renders the whole dashboard for the widget state in the query string.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	in := ParseInput(r.URL.Query())
	view := dashboard.Render(h.profiles.Current(), h.uploads.Get(r), in)

	signals, err := SignalsJSON(in.Keyword, view.Explorer.Params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := pages.HomePageData{
		IsDev:   h.isDev,
		Signals: signals,
		Notices: h.uploads.TakeNotices(w, r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.HomePage(view, data).Render(r.Context(), w); err != nil {
		h.logger.Error("render home page", "error", err)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard page.
// It sends nothing up front; the page is already rendered by HomePage.
// Each notifier ping re-sends the profile fragments.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendProfile(sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendProfile(sse *datastar.ServerSentEventGenerator) error {
	p := h.profiles.Current()
	for _, c := range pages.ProfileFragments(p, dashboard.RenderContact(p)) {
		if err := sse.PatchElementTempl(c); err != nil {
			return err
		}
	}
	return nil
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
