package publications

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/epiprofile/internal/table"
)

// YearColumn is the column that activates trend charting.
const YearColumn = "Year"

// TrendStatus describes the outcome of a year aggregation.
type TrendStatus int

const (
	// TrendNoUpload means there is nothing to aggregate yet.
	TrendNoUpload TrendStatus = iota
	// TrendMissingColumn means the table has no Year column.
	TrendMissingColumn
	// TrendNoValidYears means every Year value failed numeric coercion.
	TrendNoValidYears
	// TrendOK means Counts holds at least one year.
	TrendOK
)

// String returns a stable name for machine-readable output.
func (s TrendStatus) String() string {
	switch s {
	case TrendNoUpload:
		return "no_upload"
	case TrendMissingColumn:
		return "missing_column"
	case TrendNoValidYears:
		return "no_valid_years"
	case TrendOK:
		return "ok"
	default:
		return "unknown"
	}
}

// Messages shown for the non-chart states.
const (
	NoUploadCaption      = "Upload a publications CSV above to enable trends."
	MissingColumnWarning = "Your CSV does not include a `Year` column. Add one to enable trend plots."
	NoValidYearsWarning  = "No valid numeric years found in the `Year` column."
)

// YearCount is the number of publications in one year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Trend is a year-ordered count series.
type Trend struct {
	Status TrendStatus
	Counts []YearCount
	// Dropped is the number of rows whose Year did not coerce to a number.
	Dropped int
}

// Message returns the user-facing text for non-chart states.
func (t Trend) Message() string {
	switch t.Status {
	case TrendNoUpload:
		return NoUploadCaption
	case TrendMissingColumn:
		return MissingColumnWarning
	case TrendNoValidYears:
		return NoValidYearsWarning
	default:
		return ""
	}
}

// YearTrend counts rows per integer year. A nil table yields TrendNoUpload.
func YearTrend(t *table.Table) Trend {
	if t == nil {
		return Trend{Status: TrendNoUpload}
	}
	if !t.HasColumn(YearColumn) {
		return Trend{Status: TrendMissingColumn}
	}
	values := t.Column(YearColumn)

	counts := make(map[int]int)
	dropped := 0
	for _, v := range values {
		year, ok := coerceYear(v)
		if !ok {
			dropped++
			continue
		}
		counts[year]++
	}

	if len(counts) == 0 {
		return Trend{Status: TrendNoValidYears, Dropped: dropped}
	}

	series := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		series = append(series, YearCount{Year: y, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })

	return Trend{Status: TrendOK, Counts: series, Dropped: dropped}
}

// coerceYear parses a cell as a number and truncates it toward zero.
func coerceYear(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f >= -float64(math.MinInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}
