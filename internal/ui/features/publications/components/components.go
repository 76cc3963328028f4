// Package components renders the publications upload, filter and trend sections.
package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/publications"
	common "github.com/leapstack-labs/epiprofile/internal/ui/features/common/components"
)

// Element ids patched over SSE.
const (
	ResultsID = "publication-results"
	TrendsID  = "publication-trends"
)

// FilterURL is requested whenever the keyword changes.
const FilterURL = "/publications/filter"

// Section renders the upload form, the uploaded table and the keyword filter.
func Section(v dashboard.PublicationsView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<section id="publications"><h2>Publications</h2>`)
		h.Raw("<p>").Text(dashboard.UploadIntro).Raw("</p>")

		h.Raw(`<form class="controls" method="post" action="/publications/upload" enctype="multipart/form-data">`)
		h.Raw(`<label>Upload a CSV of Publications<input type="file" name="file" accept=".csv,text/csv" required></label>`)
		h.Raw(`<button type="submit">Upload</button></form>`)

		if v.Uploaded {
			h.Raw(`<form class="controls" method="post" action="/publications/clear">`)
			h.Raw(`<span class="notice notice-caption">`).Text(v.FileName).Raw("</span>")
			h.Raw(`<button type="submit" class="secondary">Remove file</button></form>`)
		}

		if v.Parsed() {
			h.Component(ctx, common.DataTable(v.Table))
			h.Raw(`<form class="controls" method="get" action="/">`)
			h.Raw(`<label>Filter by keyword (searches across all columns)<input type="text" name="keyword" autocomplete="off"`)
			h.Attr("value", v.Filter.Keyword)
			h.Attr("data-bind", "keyword")
			h.Attr("data-on:input__debounce.300ms", "@get('"+FilterURL+"')")
			h.Raw("></label></form>")
		}

		h.Component(ctx, Results(v))
		h.Raw("</section>")
	})
}

// Results renders the filter outcome. It is the fragment replaced on every
// keyword change.
func Results(v dashboard.PublicationsView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<div`).Attr("id", ResultsID).Raw(">")
		switch {
		case v.Error != "":
			h.Component(ctx, common.Notice(common.Error, v.Error))
		case !v.Parsed():
		case !v.Filter.Applied:
			h.Component(ctx, common.Notice(common.Info, publications.FilterHint))
		default:
			h.Raw("<p>").Text(v.FilterCaption()).Raw("</p>")
			h.Component(ctx, common.DataTable(v.Filter.Rows))
		}
		h.Raw("</div>")
	})
}

// Trends renders the year trend section.
func Trends(v dashboard.TrendView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<section`).Attr("id", TrendsID).Raw("><h2>Publication trends</h2>")
		switch v.Status {
		case publications.TrendOK:
			h.Component(ctx, common.Chart(v.Chart))
		case publications.TrendNoUpload:
			h.Component(ctx, common.Notice(common.Caption, v.Message()))
		default:
			h.Component(ctx, common.Notice(common.Warning, v.Message()))
		}
		h.Raw("</section>")
	})
}
