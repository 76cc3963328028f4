package demo

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/leapstack-labs/epiprofile/internal/chart"
	"github.com/leapstack-labs/epiprofile/internal/table"
)

// Default slider positions.
const (
	DefaultMinSuppression = 70
	DefaultMinScore       = 60

	thresholdMin = 0
	thresholdMax = 100
)

// Params is the explorer widget state for one render.
type Params struct {
	Dataset        Dataset `json:"dataset"`
	WeekMin        int     `json:"weekMin"`
	WeekMax        int     `json:"weekMax"`
	MinSuppression int     `json:"minSuppression"`
	MinScore       int     `json:"minScore"`

	// Districts selects surveillance districts. Nil means every district;
	// an empty non-nil slice selects none.
	Districts []string `json:"districts"`
}

// DefaultParams returns the initial widget state.
func DefaultParams() Params {
	lo, hi := WeekBounds()
	return Params{
		Dataset:        Surveillance,
		WeekMin:        lo,
		WeekMax:        hi,
		MinSuppression: DefaultMinSuppression,
		MinScore:       DefaultMinScore,
	}
}

// Normalize clamps every value into its slider bounds, orders the week range
// and resolves an unknown dataset to the first one.
func (p Params) Normalize() Params {
	p.Dataset = Lookup(p.Dataset).Key

	lo, hi := WeekBounds()
	p.WeekMin = clamp(p.WeekMin, lo, hi)
	p.WeekMax = clamp(p.WeekMax, lo, hi)
	if p.WeekMin > p.WeekMax {
		p.WeekMin, p.WeekMax = p.WeekMax, p.WeekMin
	}

	p.MinSuppression = clamp(p.MinSuppression, thresholdMin, thresholdMax)
	p.MinScore = clamp(p.MinScore, thresholdMin, thresholdMax)

	if p.Districts != nil {
		known := Districts()
		selected := make([]string, 0, len(p.Districts))
		for _, d := range known {
			if slices.Contains(p.Districts, d) {
				selected = append(selected, d)
			}
		}
		p.Districts = selected
	}
	return p
}

// SelectedDistricts returns the effective district selection.
func (p Params) SelectedDistricts() []string {
	if p.Districts == nil {
		return Districts()
	}
	return p.Districts
}

// Result is the explorer output for one dataset.
type Result struct {
	Info     Info
	Params   Params
	Full     *table.Table
	Filtered *table.Table
	Caption  string
	Series   chart.Series
}

// Explore applies the filter for the selected dataset.
func Explore(p Params) Result {
	p = p.Normalize()
	switch p.Dataset {
	case HIVProgramme:
		return exploreHIV(p)
	case Stewardship:
		return exploreStewardship(p)
	default:
		return exploreSurveillance(p)
	}
}

// FilterSurveillance keeps weeks in [weekMin, weekMax] whose district is in districts.
func FilterSurveillance(t *table.Table, weekMin, weekMax int, districts []string) *table.Table {
	wi, di := t.ColumnIndex(ColWeek), t.ColumnIndex(ColDistrict)
	return t.Select(func(row []string) bool {
		w, err := strconv.Atoi(row[wi])
		if err != nil {
			return false
		}
		return w >= weekMin && w <= weekMax && slices.Contains(districts, row[di])
	})
}

// FilterAtLeast keeps rows whose integer value in column is >= threshold.
func FilterAtLeast(t *table.Table, column string, threshold int) *table.Table {
	idx := t.ColumnIndex(column)
	return t.Select(func(row []string) bool {
		v, err := strconv.Atoi(row[idx])
		return err == nil && v >= threshold
	})
}

func exploreSurveillance(p Params) Result {
	full := SurveillanceTable()
	filtered := FilterSurveillance(full, p.WeekMin, p.WeekMax, p.SelectedDistricts())

	series := chart.Series{
		Kind:  chart.Line,
		Title: "Cases over time (confirmed)",
		XName: ColWeek,
		YName: ColConfirmedCases,
	}
	wi, ci := filtered.ColumnIndex(ColWeek), filtered.ColumnIndex(ColConfirmedCases)
	for _, row := range filtered.Rows {
		series.Points = append(series.Points, chart.Point{
			Label: row[wi],
			X:     atof(row[wi]),
			Y:     atof(row[ci]),
		})
	}

	return Result{
		Info:     Lookup(Surveillance),
		Params:   p,
		Full:     full,
		Filtered: filtered,
		Caption:  "Filtered results:",
		Series:   series,
	}
}

func exploreHIV(p Params) Result {
	full := HIVProgrammeTable()
	filtered := FilterAtLeast(full, ColViralSuppression, p.MinSuppression)

	return Result{
		Info:     Lookup(HIVProgramme),
		Params:   p,
		Full:     full,
		Filtered: filtered,
		Caption:  fmt.Sprintf("Facilities with viral suppression ≥ %d%%:", p.MinSuppression),
		Series:   barSeries(filtered, "Viral suppression by facility", ColFacility, ColViralSuppression),
	}
}

func exploreStewardship(p Params) Result {
	full := StewardshipTable()
	filtered := FilterAtLeast(full, ColMeanScore, p.MinScore)

	return Result{
		Info:     Lookup(Stewardship),
		Params:   p,
		Full:     full,
		Filtered: filtered,
		Caption:  "Filtered programmes:",
		Series:   barSeries(filtered, "Mean score by programme", ColProgramme, ColMeanScore),
	}
}

func barSeries(t *table.Table, title, labelCol, valueCol string) chart.Series {
	s := chart.Series{Kind: chart.Bar, Title: title, XName: labelCol, YName: valueCol}
	li, vi := t.ColumnIndex(labelCol), t.ColumnIndex(valueCol)
	for i, row := range t.Rows {
		s.Points = append(s.Points, chart.Point{Label: row[li], X: float64(i), Y: atof(row[vi])})
	}
	return s
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
