// Package components renders the demo dataset explorer.
package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	common "github.com/leapstack-labs/epiprofile/internal/ui/features/common/components"
)

// BodyID is the fragment replaced whenever an explorer widget changes.
const BodyID = "explorer-body"

// URL is requested on every explorer widget change.
const URL = "/explorer"

// DistrictsSetParam marks a form submission that carries the district
// selection, so that unchecking every box selects no district.
const DistrictsSetParam = "district_set"

const refresh = "@get('" + URL + "')"

// Section renders the dataset picker and the explorer body.
func Section(v dashboard.ExplorerView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<section id="explorer"><h2>Explore epidemiology demo data</h2>`)
		h.Raw("<p>").Text(dashboard.ExplorerIntro).Raw("</p>")

		h.Raw(`<form class="controls" method="get" action="/">`)
		h.Raw(`<label>Choose a dataset<select name="dataset" data-bind="dataset"`)
		h.Attr("data-on:change", refresh).Raw(">")
		for _, d := range v.Datasets {
			h.Raw("<option").Attr("value", string(d.Key))
			if d.Key == v.Info.Key {
				h.Raw(" selected")
			}
			h.Raw(">").Text(d.Label).Raw("</option>")
		}
		h.Raw(`</select></label><noscript><button type="submit">Show</button></noscript></form>`)

		h.Component(ctx, Body(v))
		h.Raw("</section>")
	})
}

// Body renders the dataset heading, full table, filter controls and results.
func Body(v dashboard.ExplorerView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<div`).Attr("id", BodyID).Raw(">")
		h.Raw("<h3>").Text(v.Info.Heading).Raw("</h3>")
		h.Component(ctx, common.DataTable(v.Full))

		h.Raw(`<form class="controls" method="get" action="/">`)
		h.Raw(`<input type="hidden" name="dataset"`).Attr("value", string(v.Info.Key)).Raw(">")
		switch v.Info.Key {
		case demo.HIVProgramme:
			slider(h, "Minimum viral suppression (%)", "min_suppression", "minSuppression", 0, 100, v.Params.MinSuppression)
		case demo.Stewardship:
			slider(h, "Minimum mean score (%)", "min_score", "minScore", 0, 100, v.Params.MinScore)
		default:
			h.Raw(`<fieldset><legend>Select epidemiological week range</legend>`)
			slider(h, "From week", "week_min", "weekMin", v.WeekMin, v.WeekMax, v.Params.WeekMin)
			slider(h, "To week", "week_max", "weekMax", v.WeekMin, v.WeekMax, v.Params.WeekMax)
			h.Raw("</fieldset>")
			districts(h, v)
		}
		h.Raw(`<noscript><button type="submit">Apply</button></noscript></form>`)

		h.Raw("<p>").Text(v.Caption).Raw("</p>")
		h.Component(ctx, common.DataTable(v.Filtered))
		h.Component(ctx, common.Chart(v.Chart))
		h.Raw("</div>")
	})
}

func slider(h *common.HTML, label, name, signal string, lo, hi, value int) {
	h.Raw("<label>").Text(label).Raw(" <strong").Attr("data-text", "$"+signal).Raw(">")
	h.Text(strconv.Itoa(value)).Raw("</strong>")
	h.Raw(`<input type="range"`).
		Attr("name", name).
		Attr("min", strconv.Itoa(lo)).
		Attr("max", strconv.Itoa(hi)).
		Attr("value", strconv.Itoa(value)).
		Attr("data-bind", signal).
		Attr("data-on:change", refresh).
		Raw("></label>")
}

func districts(h *common.HTML, v dashboard.ExplorerView) {
	h.Raw(`<fieldset><legend>Filter by district</legend>`)
	h.Raw(`<input type="hidden" name="` + DistrictsSetParam + `" value="1">`)
	for _, d := range v.Districts {
		h.Raw(`<label><input type="checkbox" name="district"`).
			Attr("value", d).
			Attr("data-bind", "districts").
			Attr("data-on:change", refresh)
		if v.Selected(d) {
			h.Raw(" checked")
		}
		h.Raw(">").Text(d).Raw("</label>")
	}
	h.Raw("</fieldset>")
}
