package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/epiprofile/internal/ui/resources"
)

// DatastarScript is the client runtime loaded by every page.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// PageData configures the page shell.
type PageData struct {
	Title string
	IsDev bool
	// Signals is the JSON object seeded into the Datastar signal store.
	Signals string
	// UpdatesURL is opened as a long-lived SSE stream once the page loads.
	UpdatesURL string
}

// Page renders a complete HTML document around body.
func Page(data PageData, body ...templ.Component) templ.Component {
	return Func(func(ctx context.Context, h *HTML) {
		h.Raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw("<title>").Text(data.Title).Raw("</title>")
		h.Raw(`<link rel="stylesheet"`).Attr("href", resources.StaticPath("style.css")).Raw(">")
		h.Raw(`<script type="module"`).Attr("src", DatastarScript).Raw("></script>")
		h.Raw("</head><body>")

		h.Raw(`<main class="page"`)
		if data.Signals != "" {
			h.Attr("data-signals", data.Signals)
		}
		if data.UpdatesURL != "" {
			h.Attr("data-init", "@get('"+data.UpdatesURL+"')")
		}
		h.Raw(">")
		if data.IsDev {
			h.Raw(`<div hidden data-init="@get('/reload')"></div>`)
		}
		for _, c := range body {
			h.Component(ctx, c)
		}
		h.Raw("</main></body></html>")
	})
}
