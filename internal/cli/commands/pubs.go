package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/epiprofile/internal/cli/output"
	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/publications"
	"github.com/leapstack-labs/epiprofile/internal/table"
)

// PubsOptions holds options for the pubs command.
type PubsOptions struct {
	Keyword string
}

// pubsReport is the machine-readable form of the pubs command.
type pubsReport struct {
	File    string              `json:"file" yaml:"file"`
	Columns []string            `json:"columns" yaml:"columns"`
	Rows    int                 `json:"rows" yaml:"rows"`
	Keyword string              `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Applied bool                `json:"filter_applied" yaml:"filter_applied"`
	Matches []map[string]string `json:"matches,omitempty" yaml:"matches,omitempty"`
	Trend   trendReport         `json:"trend" yaml:"trend"`
}

type trendReport struct {
	Status  string                   `json:"status" yaml:"status"`
	Message string                   `json:"message,omitempty" yaml:"message,omitempty"`
	Counts  []publications.YearCount `json:"counts,omitempty" yaml:"counts,omitempty"`
	Dropped int                      `json:"dropped" yaml:"dropped"`
}

// NewPubsCommand creates the pubs command.
func NewPubsCommand() *cobra.Command {
	opts := &PubsOptions{}

	cmd := &cobra.Command{
		Use:   "pubs <file.csv>",
		Short: "Filter a publications CSV and count publications per year",
		Long: `Run the dashboard's publication filter and year trend on a CSV file.

Rows match when the keyword appears, ignoring case, in any column. The
trend counts rows per value of the Year column; values that are not
numbers are skipped. Use "-" to read the CSV from stdin.`,
		Example: `  # Show the table and the year trend
  epiprofile pubs publications.csv

  # Keep rows mentioning HIV
  epiprofile pubs publications.csv --keyword hiv

  # Machine-readable output
  epiprofile pubs publications.csv -k malaria -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPubs(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Keyword, "keyword", "k", "", "Keyword to filter publications by")

	return cmd
}

func runPubs(cmd *cobra.Command, path string, opts *PubsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	up, err := readUpload(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("publications read", "file", up.Name, "bytes", len(up.Data))

	v := dashboard.RenderPublications(up, opts.Keyword)
	if !v.Parsed() {
		return errors.New(v.Error)
	}
	trend := publications.YearTrend(v.Table)

	report := pubsReport{
		File:    up.Name,
		Columns: v.Table.Columns,
		Rows:    v.Table.Len(),
		Keyword: v.Filter.Keyword,
		Applied: v.Filter.Applied,
		Trend: trendReport{
			Status:  trend.Status.String(),
			Message: trend.Message(),
			Counts:  trend.Counts,
			Dropped: trend.Dropped,
		},
	}
	if v.Filter.Applied {
		report.Matches = v.Filter.Rows.Records()
	}
	if done, err := r.Encode(report); done {
		return err
	}

	renderPubs(r, v, trend)
	return nil
}

func readUpload(stdin io.Reader, path string) (*dashboard.Upload, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return &dashboard.Upload{Name: "stdin", Data: data}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &dashboard.Upload{Name: filepath.Base(path), Data: data}, nil
}

func renderPubs(r *output.Renderer, v dashboard.PublicationsView, trend publications.Trend) {
	r.Header(1, fmt.Sprintf("Publications: %s (%d rows)", v.FileName, v.Table.Len()))

	if !v.Filter.Applied {
		r.Table(v.Table)
		r.Muted(publications.FilterHint)
		r.Println("")
	} else {
		r.Header(2, v.FilterCaption())
		r.Table(v.Filter.Rows)
	}

	r.Header(2, "Publications per year")
	if trend.Status != publications.TrendOK {
		r.Warning(trend.Message())
		return
	}
	counts := make([][]string, len(trend.Counts))
	for i, c := range trend.Counts {
		counts[i] = []string{strconv.Itoa(c.Year), strconv.Itoa(c.Count)}
	}
	r.Table(table.New([]string{publications.YearColumn, "Count"}, counts))
}
