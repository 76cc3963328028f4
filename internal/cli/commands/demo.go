package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/epiprofile/internal/chart"
	"github.com/leapstack-labs/epiprofile/internal/cli/output"
	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	"github.com/leapstack-labs/epiprofile/internal/table"
)

// DemoOptions holds options for the demo command.
type DemoOptions struct {
	List           bool
	WeekMin        int
	WeekMax        int
	Districts      []string
	MinSuppression int
	MinScore       int
	SVG            string
}

type demoReport struct {
	Dataset  demo.Dataset        `json:"dataset" yaml:"dataset"`
	Label    string              `json:"label" yaml:"label"`
	Params   demo.Params         `json:"params" yaml:"params"`
	Caption  string              `json:"caption" yaml:"caption"`
	Total    int                 `json:"total_rows" yaml:"total_rows"`
	Filtered []map[string]string `json:"filtered" yaml:"filtered"`
}

type datasetInfo struct {
	Key     demo.Dataset `json:"key" yaml:"key"`
	Label   string       `json:"label" yaml:"label"`
	Heading string       `json:"heading" yaml:"heading"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand() *cobra.Command {
	opts := &DemoOptions{}

	keys := make([]string, 0, 3)
	for _, d := range demo.Datasets() {
		keys = append(keys, string(d.Key))
	}

	cmd := &cobra.Command{
		Use:   "demo [dataset]",
		Short: "Explore a synthetic demo dataset",
		Long: `Filter one of the dashboard's synthetic datasets from the terminal.

Datasets: ` + strings.Join(keys, ", ") + ` (default: surveillance).

  surveillance  --week-min, --week-max and --district
  hiv           --min-suppression (viral suppression %)
  stewardship   --min-score (mean knowledge score %)

Out-of-range values are clamped to the dashboard's slider bounds.`,
		Example: `  # List datasets
  epiprofile demo --list

  # Weeks 3 to 8 in districts A and C
  epiprofile demo surveillance --week-min 3 --week-max 8 --district A,C

  # Facilities with at least 75% viral suppression, chart written to a file
  epiprofile demo hiv --min-suppression 75 --svg hiv.svg`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return runDemoList(cmd)
			}
			dataset := demo.Surveillance
			if len(args) == 1 {
				dataset = demo.Dataset(args[0])
			}
			return runDemo(cmd, dataset, opts)
		},
	}

	lo, hi := demo.WeekBounds()
	cmd.Flags().BoolVar(&opts.List, "list", false, "List the available datasets")
	cmd.Flags().IntVar(&opts.WeekMin, "week-min", lo, "First surveillance week")
	cmd.Flags().IntVar(&opts.WeekMax, "week-max", hi, "Last surveillance week")
	cmd.Flags().StringSliceVar(&opts.Districts, "district", nil, "Surveillance districts to keep (default: all)")
	cmd.Flags().IntVar(&opts.MinSuppression, "min-suppression", demo.DefaultMinSuppression, "Minimum viral suppression % (hiv)")
	cmd.Flags().IntVar(&opts.MinScore, "min-score", demo.DefaultMinScore, "Minimum mean score % (stewardship)")
	cmd.Flags().StringVar(&opts.SVG, "svg", "", "Write the chart as SVG to this file")

	_ = cmd.RegisterFlagCompletionFunc("district", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return demo.Districts(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// demoParams builds explorer parameters from the command flags.
func demoParams(cmd *cobra.Command, dataset demo.Dataset, opts *DemoOptions) demo.Params {
	p := demo.DefaultParams()
	p.Dataset = dataset
	p.WeekMin = opts.WeekMin
	p.WeekMax = opts.WeekMax
	p.MinSuppression = opts.MinSuppression
	p.MinScore = opts.MinScore
	if cmd.Flags().Changed("district") {
		p.Districts = make([]string, 0, len(opts.Districts))
		for _, d := range opts.Districts {
			p.Districts = append(p.Districts, strings.ToUpper(strings.TrimSpace(d)))
		}
	}
	return p.Normalize()
}

func runDemo(cmd *cobra.Command, dataset demo.Dataset, opts *DemoOptions) error {
	if !demo.Known(dataset) {
		return fmt.Errorf("unknown dataset %q (want one of: %s)", dataset, strings.Join(cmd.ValidArgs, ", "))
	}

	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	params := demoParams(cmd, dataset, opts)
	v := dashboard.RenderExplorer(params)
	cmdCtx.Logger.Debug("demo explored", "dataset", dataset, "rows", v.Filtered.Len())

	if opts.SVG != "" {
		if err := writeChart(opts.SVG, v.Series); err != nil {
			if !errors.Is(err, chart.ErrNoData) {
				return err
			}
			r.Warning(dashboard.NoMatchingRows + " No chart written.")
		}
	}

	report := demoReport{
		Dataset:  v.Info.Key,
		Label:    v.Info.Label,
		Params:   v.Params,
		Caption:  v.Caption,
		Total:    v.Full.Len(),
		Filtered: v.Filtered.Records(),
	}
	if done, err := r.Encode(report); done {
		return err
	}

	renderDemo(r, v)
	return nil
}

func writeChart(path string, s chart.Series) error {
	svg, err := chart.SVG(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, svg, 0600); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func renderDemo(r *output.Renderer, v dashboard.ExplorerView) {
	r.Header(1, v.Info.Heading)
	r.Table(v.Full, displayHeaders(v.Full)...)

	r.Header(2, v.Caption)
	if v.Filtered.Len() == 0 {
		r.Muted(dashboard.NoMatchingRows)
		return
	}
	r.Table(v.Filtered, displayHeaders(v.Filtered)...)
}

// displayHeaders turns column names like "Viral_suppression_%" into
// "Viral Suppression %". Acronyms keep their case.
func displayHeaders(t *table.Table) []string {
	title := cases.Title(language.English, cases.NoLower)
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = title.String(strings.ReplaceAll(c, "_", " "))
	}
	return out
}

func runDemoList(cmd *cobra.Command) error {
	r := NewCommandContext(cmd).Renderer

	infos := make([]datasetInfo, 0, 3)
	rows := make([][]string, 0, 3)
	for _, d := range demo.Datasets() {
		infos = append(infos, datasetInfo{Key: d.Key, Label: d.Label, Heading: d.Heading})
		rows = append(rows, []string{string(d.Key), d.Label})
	}
	if done, err := r.Encode(infos); done {
		return err
	}

	r.Header(1, "Demo datasets")
	r.Println(dashboard.ExplorerIntro)
	r.Println("")
	r.Table(table.New([]string{"Dataset", "Description"}, rows))
	return nil
}
