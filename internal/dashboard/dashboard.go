// Package dashboard is the render pipeline: it turns the profile, the current
// upload and the widget state into a View that the web and CLI layers display.
//
// Render is pure. It reads nothing but its arguments and keeps no state
// between calls, so every interaction re-runs it from scratch.
package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/epiprofile/internal/chart"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/publications"
	"github.com/leapstack-labs/epiprofile/internal/table"
)

// Texts shown by the publications and explorer sections.
const (
	UploadIntro = "Upload a CSV of your publications (e.g., columns like: `Title`, `Authors`, `Journal`, `Year`, `Keywords`). " +
		"If you include a `Year` column, the app will automatically plot trends."
	ExplorerIntro = "These small demo datasets are included to showcase how an epidemiologist might explore " +
		"surveillance, program performance, or field data in a simple dashboard."
	NoMatchingRows = "No rows match the current filters."
	parseErrorText = "Could not read the uploaded file as CSV: %v"
	chartErrorText = "Could not draw the chart: %v"
)

// Upload is a file received from the user. A nil *Upload means nothing was uploaded.
type Upload struct {
	Name string
	Data []byte
}

// Input is the widget state for one render.
type Input struct {
	Keyword  string
	Explorer demo.Params
}

// DefaultInput returns the state of a freshly opened page.
func DefaultInput() Input {
	return Input{Explorer: demo.DefaultParams()}
}

// View is everything one render produces.
type View struct {
	Profile      *profile.Profile
	Publications PublicationsView
	Trend        TrendView
	Explorer     ExplorerView
	Contact      ContactView
}

// PublicationsView is the upload and keyword filter section.
type PublicationsView struct {
	Uploaded bool
	FileName string
	// Error is set when the upload could not be parsed. Table is nil then.
	Error  string
	Table  *table.Table
	Filter publications.FilterResult
}

// Parsed reports whether a table is available for display and filtering.
func (v PublicationsView) Parsed() bool {
	return v.Table != nil
}

// FilterCaption is the heading above the filtered rows.
func (v PublicationsView) FilterCaption() string {
	return fmt.Sprintf("Filtered Results for '%s':", v.Filter.Keyword)
}

// TrendView is the year trend section.
type TrendView struct {
	publications.Trend
	Chart ChartView
}

// ExplorerView is the demo dataset section.
type ExplorerView struct {
	demo.Result
	Datasets  []demo.Info
	Districts []string
	WeekMin   int
	WeekMax   int
	Chart     ChartView
}

// Selected reports whether district is part of the current selection.
func (v ExplorerView) Selected(district string) bool {
	for _, d := range v.Params.SelectedDistricts() {
		if d == district {
			return true
		}
	}
	return false
}

// ChartView is a rendered chart, or the message shown instead of one.
type ChartView struct {
	Title   string
	SVG     []byte
	Message string
}

// Drawn reports whether SVG holds a chart.
func (c ChartView) Drawn() bool {
	return len(c.SVG) > 0
}

// ContactView is the contact section.
type ContactView struct {
	Email       string
	Institution string
	Links       []profile.Link
	// Hint is set when no link has a URL.
	Hint string
}

// Render runs the whole pipeline once.
func Render(p *profile.Profile, up *Upload, in Input) View {
	if p == nil {
		p = profile.Default()
	}

	pubs := renderPublications(up, in.Keyword)

	// Table is nil for a failed parse, which trends the same as no upload.
	return View{
		Profile:      p,
		Publications: pubs,
		Trend:        renderTrend(publications.YearTrend(pubs.Table)),
		Explorer:     renderExplorer(in.Explorer),
		Contact:      renderContact(p),
	}
}

// RenderPublications runs only the upload and filter stage.
func RenderPublications(up *Upload, keyword string) PublicationsView {
	return renderPublications(up, keyword)
}

// RenderExplorer runs only the demo explorer stage.
func RenderExplorer(params demo.Params) ExplorerView {
	return renderExplorer(params)
}

// RenderContact runs only the contact stage.
func RenderContact(p *profile.Profile) ContactView {
	return renderContact(p)
}

func renderPublications(up *Upload, keyword string) PublicationsView {
	if up == nil {
		return PublicationsView{}
	}

	v := PublicationsView{Uploaded: true, FileName: up.Name}
	t, err := table.ParseCSV(bytes.NewReader(up.Data))
	if err != nil {
		v.Error = fmt.Sprintf(parseErrorText, err)
		return v
	}
	v.Table = t
	v.Filter = publications.Filter(t, keyword)
	return v
}

func renderTrend(t publications.Trend) TrendView {
	v := TrendView{Trend: t}
	if t.Status != publications.TrendOK {
		return v
	}

	s := chart.Series{Kind: chart.Bar, Title: "Publications per year", XName: publications.YearColumn, YName: "Count"}
	for _, c := range t.Counts {
		s.Points = append(s.Points, chart.Point{
			Label: strconv.Itoa(c.Year),
			X:     float64(c.Year),
			Y:     float64(c.Count),
		})
	}
	v.Chart = drawChart(s)
	return v
}

func renderExplorer(params demo.Params) ExplorerView {
	res := demo.Explore(params)
	lo, hi := demo.WeekBounds()
	return ExplorerView{
		Result:    res,
		Datasets:  demo.Datasets(),
		Districts: demo.Districts(),
		WeekMin:   lo,
		WeekMax:   hi,
		Chart:     drawChart(res.Series),
	}
}

func renderContact(p *profile.Profile) ContactView {
	v := ContactView{
		Email:       p.Email,
		Institution: p.Institution,
		Links:       p.VisibleLinks(),
	}
	if len(v.Links) == 0 {
		v.Hint = profile.LinksHint
	}
	return v
}

func drawChart(s chart.Series) ChartView {
	v := ChartView{Title: s.Title}
	svg, err := chart.SVG(s)
	switch {
	case errors.Is(err, chart.ErrNoData):
		v.Message = NoMatchingRows
	case err != nil:
		v.Message = fmt.Sprintf(chartErrorText, err)
	default:
		v.SVG = svg
	}
	return v
}
