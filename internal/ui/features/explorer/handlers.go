// Package explorer provides the demo dataset explorer feature for the UI.
package explorer

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	"github.com/leapstack-labs/epiprofile/internal/ui/features/explorer/components"
)

// Handlers provides HTTP handlers for the explorer feature.
type Handlers struct{}

// NewHandlers creates a new Handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// ExplorerSSE re-renders the explorer body for the current widget signals.
// Missing signals keep their defaults.
func (h *Handlers) ExplorerSSE(w http.ResponseWriter, r *http.Request) {
	params := demo.DefaultParams()
	if err := datastar.ReadSignals(r, &params); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	view := dashboard.RenderExplorer(params)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Body(view)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
