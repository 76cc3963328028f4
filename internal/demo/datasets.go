// Package demo holds the synthetic epidemiology datasets shown in the
// dashboard explorer and the filters applied to them.
package demo

import (
	"sort"
	"strconv"

	"github.com/leapstack-labs/epiprofile/internal/table"
)

// Dataset identifies one of the demo tables.
type Dataset string

// Known datasets, in dropdown order.
const (
	Surveillance Dataset = "surveillance"
	HIVProgramme Dataset = "hiv"
	Stewardship  Dataset = "stewardship"
)

// Column names used by the filters.
const (
	ColWeek             = "Week"
	ColSuspectedCases   = "Suspected_cases"
	ColConfirmedCases   = "Confirmed_cases"
	ColDistrict         = "District"
	ColFacility         = "Facility"
	ColInitiatedART     = "AGYW_initiated_ART"
	ColViralSuppression = "Viral_suppression_%"
	ColInterruptions    = "Interruptions_%"
	ColProgramme        = "Programme"
	ColMeanScore        = "Mean_score_%"
	ColSampleSize       = "Sample_size"
)

// Info describes a dataset for selection widgets.
type Info struct {
	Key     Dataset
	Label   string
	Heading string
}

var datasets = []Info{
	{Key: Surveillance, Label: "Weekly surveillance (synthetic)", Heading: "Weekly surveillance line list summary"},
	{Key: HIVProgramme, Label: "HIV programme indicators (synthetic)", Heading: "HIV programme indicators (AGYW-focused)"},
	{Key: Stewardship, Label: "Antimicrobial stewardship knowledge (synthetic)", Heading: "Antimicrobial stewardship knowledge scores"},
}

// Datasets returns the selectable datasets in display order.
func Datasets() []Info {
	out := make([]Info, len(datasets))
	copy(out, datasets)
	return out
}

// Lookup returns the info for key. Unknown keys resolve to the first dataset.
func Lookup(key Dataset) Info {
	for _, d := range datasets {
		if d.Key == key {
			return d
		}
	}
	return datasets[0]
}

// Known reports whether key names a dataset.
func Known(key Dataset) bool {
	for _, d := range datasets {
		if d.Key == key {
			return true
		}
	}
	return false
}

var (
	surveillanceWeeks     = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	surveillanceSuspected = []int{12, 18, 15, 22, 19, 25, 27, 31, 24, 20, 18, 16}
	surveillanceConfirmed = []int{4, 7, 6, 9, 8, 11, 13, 14, 10, 9, 7, 6}
	surveillanceDistricts = []string{"A", "A", "B", "B", "A", "C", "C", "C", "B", "A", "B", "A"}

	hivFacilities    = []string{"Clinic 1", "Clinic 2", "Clinic 3", "Clinic 4", "Clinic 5"}
	hivInitiated     = []int{85, 64, 92, 58, 77}
	hivSuppression   = []int{78, 71, 82, 69, 75}
	hivInterruptions = []int{9, 12, 7, 14, 10}

	amsProgrammes = []string{"Nursing", "Pharmacy", "Medical"}
	amsScores     = []int{61, 68, 64}
	amsSamples    = []int{120, 85, 95}
)

// SurveillanceTable returns the weekly surveillance table.
// Each call returns a fresh copy.
func SurveillanceTable() *table.Table {
	rows := make([][]string, len(surveillanceWeeks))
	for i := range surveillanceWeeks {
		rows[i] = []string{
			strconv.Itoa(surveillanceWeeks[i]),
			strconv.Itoa(surveillanceSuspected[i]),
			strconv.Itoa(surveillanceConfirmed[i]),
			surveillanceDistricts[i],
		}
	}
	return table.New([]string{ColWeek, ColSuspectedCases, ColConfirmedCases, ColDistrict}, rows)
}

// HIVProgrammeTable returns the HIV programme indicator table.
func HIVProgrammeTable() *table.Table {
	rows := make([][]string, len(hivFacilities))
	for i := range hivFacilities {
		rows[i] = []string{
			hivFacilities[i],
			strconv.Itoa(hivInitiated[i]),
			strconv.Itoa(hivSuppression[i]),
			strconv.Itoa(hivInterruptions[i]),
		}
	}
	return table.New([]string{ColFacility, ColInitiatedART, ColViralSuppression, ColInterruptions}, rows)
}

// StewardshipTable returns the antimicrobial stewardship knowledge table.
func StewardshipTable() *table.Table {
	rows := make([][]string, len(amsProgrammes))
	for i := range amsProgrammes {
		rows[i] = []string{
			amsProgrammes[i],
			strconv.Itoa(amsScores[i]),
			strconv.Itoa(amsSamples[i]),
		}
	}
	return table.New([]string{ColProgramme, ColMeanScore, ColSampleSize}, rows)
}

// Districts returns the distinct surveillance districts, sorted.
func Districts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range surveillanceDistricts {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// WeekBounds returns the slider bounds for the week range: 1 to the last week.
func WeekBounds() (int, int) {
	hi := 1
	for _, w := range surveillanceWeeks {
		if w > hi {
			hi = w
		}
	}
	return 1, hi
}
