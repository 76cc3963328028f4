// Package publications implements keyword filtering and year trends over an
// uploaded publications table.
package publications

import (
	"strings"

	"github.com/leapstack-labs/epiprofile/internal/table"
	"golang.org/x/text/cases"
)

// FilterHint is shown instead of results when no keyword is entered.
const FilterHint = "Tip: Type a keyword above to filter your publications."

// FilterResult is the outcome of a keyword filter.
type FilterResult struct {
	Keyword string
	// Applied is false when the keyword was empty or whitespace only.
	// Rows is nil in that case.
	Applied bool
	Rows    *table.Table
}

// Filter keeps the rows where keyword appears, case-insensitively, as a
// substring of any cell. Every column is searched, numeric ones included.
func Filter(t *table.Table, keyword string) FilterResult {
	if strings.TrimSpace(keyword) == "" {
		return FilterResult{Keyword: keyword}
	}

	fold := cases.Fold()
	needle := fold.String(keyword)

	rows := t.Select(func(row []string) bool {
		for _, cell := range row {
			if strings.Contains(fold.String(cell), needle) {
				return true
			}
		}
		return false
	})

	return FilterResult{Keyword: keyword, Applied: true, Rows: rows}
}
