package home

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	explorer "github.com/leapstack-labs/epiprofile/internal/ui/features/explorer/components"
)

// Signals is the initial Datastar signal state of the page.
type Signals struct {
	Keyword string `json:"keyword"`
	demo.Params
}

// ParseInput reads widget state from query parameters. Missing or malformed
// values keep their defaults; out-of-range values are clamped by the explorer.
func ParseInput(q url.Values) dashboard.Input {
	in := dashboard.DefaultInput()
	in.Keyword = q.Get("keyword")

	p := &in.Explorer
	if d := q.Get("dataset"); d != "" {
		p.Dataset = demo.Dataset(d)
	}
	intParam(q, "week_min", &p.WeekMin)
	intParam(q, "week_max", &p.WeekMax)
	intParam(q, "min_suppression", &p.MinSuppression)
	intParam(q, "min_score", &p.MinScore)

	if _, ok := q["district"]; ok || q.Has(explorer.DistrictsSetParam) {
		p.Districts = append([]string{}, q["district"]...)
	}
	return in
}

func intParam(q url.Values, key string, dst *int) {
	if v, err := strconv.Atoi(q.Get(key)); err == nil {
		*dst = v
	}
}

// SignalsJSON encodes the widget state a render used as the page's signals.
// Districts are always explicit so the checkboxes bind to a list.
func SignalsJSON(keyword string, p demo.Params) (string, error) {
	p.Districts = p.SelectedDistricts()
	b, err := json.Marshal(Signals{Keyword: keyword, Params: p})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
