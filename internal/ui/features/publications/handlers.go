// Package publications provides the upload, clear and keyword filter endpoints.
package publications

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/ui/features/publications/components"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

const (
	formField = "file"
	// multipartOverhead is allowed on top of the file limit for form framing.
	multipartOverhead = 64 << 10
)

// FilterSignals is the signal state sent by the keyword input.
type FilterSignals struct {
	Keyword string `json:"keyword"`
}

// Handlers provides HTTP handlers for the publications feature.
type Handlers struct {
	uploads *uploads.Cache
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cache *uploads.Cache, logger *slog.Logger) *Handlers {
	return &Handlers{uploads: cache, logger: logger}
}

// Upload stores the posted file in the session cache and redirects home.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormBytes())

	if err := h.store(w, r); err != nil {
		h.logger.Debug("upload rejected", "error", err)
		if nerr := h.uploads.AddNotice(w, r, uploadMessage(err, h.uploads.MaxBytes())); nerr != nil {
			h.logger.Error("failed to save notice", "error", nerr)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) store(w http.ResponseWriter, r *http.Request) error {
	// The body is capped at maxFormBytes, so the whole form stays in memory.
	if err := r.ParseMultipartForm(h.maxFormBytes()); err != nil {
		return err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	file, header, err := r.FormFile(formField)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := h.uploads.Put(w, r, header.Filename, file); err != nil {
		return err
	}
	h.logger.Info("publications uploaded", "file", header.Filename, "size", header.Size)
	return nil
}

func (h *Handlers) maxFormBytes() int64 {
	return h.uploads.MaxBytes() + multipartOverhead
}

func uploadMessage(err error, limit int64) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, uploads.ErrTooLarge), errors.As(err, &maxErr):
		return "The file is larger than the " + humanize.IBytes(uint64(limit)) + " upload limit."
	case errors.Is(err, http.ErrMissingFile):
		return "Choose a CSV file to upload."
	default:
		return "The upload could not be read: " + err.Error()
	}
}

// Clear drops the session's upload and redirects home.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	h.uploads.Clear(r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FilterSSE re-renders the filter results for the keyword signal.
func (h *Handlers) FilterSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	view := dashboard.RenderPublications(h.uploads.Get(r), signals.Keyword)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Results(view)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
