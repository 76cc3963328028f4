package components

import (
	"context"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/table"
)

// NoticeKind selects the notice style.
type NoticeKind string

// Notice styles.
const (
	Info    NoticeKind = "info"
	Warning NoticeKind = "warning"
	Error   NoticeKind = "error"
	Caption NoticeKind = "caption"
)

// Notice renders a one-line message box.
func Notice(kind NoticeKind, text string) templ.Component {
	return Func(func(_ context.Context, h *HTML) {
		h.Raw(`<p`).Attr("class", "notice notice-"+string(kind)).Raw(">").Text(text).Raw("</p>")
	})
}

// Divider renders a horizontal rule between sections.
func Divider() templ.Component {
	return templ.Raw(`<hr class="divider">`)
}

// DataTable renders t as an HTML table. A nil table renders nothing.
func DataTable(t *table.Table) templ.Component {
	return Func(func(_ context.Context, h *HTML) {
		if t == nil {
			return
		}
		h.Raw(`<div class="table-wrap"><table class="data"><thead><tr>`)
		for _, c := range t.Columns {
			h.Raw("<th>").Text(c).Raw("</th>")
		}
		h.Raw("</tr></thead><tbody>")
		for _, row := range t.Rows {
			h.Raw("<tr>")
			for _, cell := range row {
				h.Raw("<td>").Text(cell).Raw("</td>")
			}
			h.Raw("</tr>")
		}
		h.Raw("</tbody></table></div>")
	})
}

// Chart renders a chart view: the inline SVG when drawn, its message otherwise.
func Chart(c dashboard.ChartView) templ.Component {
	return Func(func(ctx context.Context, h *HTML) {
		h.Raw(`<figure class="chart">`)
		if c.Title != "" {
			h.Raw("<figcaption>").Text(c.Title).Raw("</figcaption>")
		}
		if c.Drawn() {
			h.Raw(string(c.SVG))
		} else if c.Message != "" {
			h.Component(ctx, Notice(Info, c.Message))
		}
		h.Raw("</figure>")
	})
}
