// Package pages renders the dashboard page and its profile fragments.
package pages

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/profile"
	common "github.com/leapstack-labs/epiprofile/internal/ui/features/common/components"
	explorer "github.com/leapstack-labs/epiprofile/internal/ui/features/explorer/components"
	pubs "github.com/leapstack-labs/epiprofile/internal/ui/features/publications/components"
)

// UpdatesURL is the long-lived SSE stream that pushes profile changes.
const UpdatesURL = "/updates"

// HomePageData is everything the page needs besides the view.
type HomePageData struct {
	IsDev   bool
	Signals string
	Notices []string
}

// Title returns the browser title for p.
func Title(p *profile.Profile) string {
	return "Epidemiologist Profile | " + p.Name
}

// HomePage renders the full dashboard.
func HomePage(v dashboard.View, data HomePageData) templ.Component {
	body := []templ.Component{
		notices(data.Notices),
		Header(v.Profile),
		Metrics(v.Profile),
		common.Divider(),
		pubs.Section(v.Publications),
		common.Divider(),
		pubs.Trends(v.Trend),
		common.Divider(),
		explorer.Section(v.Explorer),
		common.Divider(),
		Contact(v.Contact),
		common.Divider(),
		Footer(v.Profile),
	}

	return common.Page(common.PageData{
		Title:      Title(v.Profile),
		IsDev:      data.IsDev,
		Signals:    data.Signals,
		UpdatesURL: UpdatesURL,
	}, body...)
}

// ProfileFragments returns the page parts that depend only on the profile,
// in the order they are patched after a profile reload.
func ProfileFragments(p *profile.Profile, contact dashboard.ContactView) []templ.Component {
	return []templ.Component{Header(p), Metrics(p), Contact(contact), Footer(p)}
}

func notices(msgs []string) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		for _, m := range msgs {
			h.Component(ctx, common.Notice(common.Warning, m))
		}
	})
}

// Header renders the title, subtitle, image, about text and research areas.
func Header(p *profile.Profile) templ.Component {
	return common.Func(func(_ context.Context, h *common.HTML) {
		h.Raw(`<header id="profile"><h1>Epidemiologist Research Profile</h1>`)
		h.Raw(`<p class="name"><strong>`).Text(p.Name).Raw("</strong></p>")
		h.Raw(`<p class="subtitle">`).Text(p.Subtitle()).Raw("</p>")
		h.Raw(`<div class="profile"><figure>`)
		if p.Image.URL != "" {
			h.Raw("<img").Attr("src", string(templ.URL(p.Image.URL))).Attr("alt", p.Image.Caption).Raw(">")
			h.Raw("<figcaption>").Text(p.Image.Caption).Raw("</figcaption>")
		}
		h.Raw("</figure><div><h2>About</h2>")
		h.Raw("<p>").Text(p.About).Raw("</p>")
		h.Raw(`<h2>Core research areas</h2><ul class="areas">`)
		for _, a := range p.Areas {
			h.Raw("<li>").Text(a).Raw("</li>")
		}
		h.Raw("</ul></div></div></header>")
	})
}

// Metrics renders the at-a-glance figures.
func Metrics(p *profile.Profile) templ.Component {
	return common.Func(func(_ context.Context, h *common.HTML) {
		h.Raw(`<section id="metrics"><h2>At-a-glance (demo metrics)</h2><div class="metrics">`)
		for _, m := range p.Metrics {
			h.Raw(`<div class="metric"><div class="label">`).Text(m.Label).Raw("</div>")
			h.Raw(`<div class="value">`).Text(m.Value).Raw("</div></div>")
		}
		h.Raw("</div></section>")
	})
}

// Contact renders the email, institution and links.
func Contact(v dashboard.ContactView) templ.Component {
	return common.Func(func(ctx context.Context, h *common.HTML) {
		h.Raw(`<section id="contact"><h2>Contact</h2>`)
		h.Raw("<p><strong>Email:</strong> <a").Attr("href", string(templ.URL("mailto:"+v.Email))).Raw(">")
		h.Text(v.Email).Raw("</a></p>")
		h.Raw("<p><strong>Institution:</strong> ").Text(v.Institution).Raw("</p>")
		if len(v.Links) > 0 {
			h.Raw("<h3>Links</h3><ul>")
			for _, l := range v.Links {
				h.Raw("<li>").Text(l.Label).Raw(": <a").Attr("href", string(templ.URL(l.URL))).Raw(` rel="noopener">`)
				h.Text(l.URL).Raw("</a></li>")
			}
			h.Raw("</ul>")
		} else {
			h.Component(ctx, common.Notice(common.Caption, v.Hint))
		}
		h.Raw("</section>")
	})
}

// Footer renders the closing caption.
func Footer(p *profile.Profile) templ.Component {
	return common.Func(func(_ context.Context, h *common.HTML) {
		h.Raw(`<footer id="footer">`).Text(p.Footer).Raw("</footer>")
	})
}
