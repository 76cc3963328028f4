// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/epiprofile/internal/cli/config"
	"github.com/leapstack-labs/epiprofile/internal/cli/testutil"
	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/demo"
	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/publications"
)

// run executes cmd with args and no loaded config, so output is markdown.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"port", "open", "watch"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestResolveServeSettings(t *testing.T) {
	cfg := config.Default()
	cfg.UI.SessionSecret = "from-config"
	cfg.Upload.MaxBytes = 2048

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, s serveSettings)
	}{
		{
			name: "config values",
			check: func(t *testing.T, s serveSettings) {
				assert.Equal(t, config.DefaultPort, s.Port)
				assert.False(t, s.AutoOpen)
				assert.True(t, s.Watch)
				assert.Equal(t, "from-config", s.SessionSecret)
				assert.Equal(t, int64(2048), s.MaxUploadSize)
				assert.Equal(t, config.DefaultMaxSessions, s.MaxSessions)
			},
		},
		{
			name: "flags override",
			args: []string{"--port", "3000", "--open", "--watch=false"},
			check: func(t *testing.T, s serveSettings) {
				assert.Equal(t, 3000, s.Port)
				assert.True(t, s.AutoOpen)
				assert.False(t, s.Watch)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &ServeOptions{}
			cmd := NewServeCommand()
			require.NoError(t, cmd.ParseFlags(tt.args))
			opts.Port, _ = cmd.Flags().GetInt("port")
			opts.Open, _ = cmd.Flags().GetBool("open")
			opts.Watch, _ = cmd.Flags().GetBool("watch")

			tt.check(t, resolveServeSettings(cfg, opts, cmd))
		})
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := generateSessionSecret()
	require.NoError(t, err)
	b, err := generateSessionSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestProfileCommand(t *testing.T) {
	out, _, err := run(t, NewProfileCommand())
	require.NoError(t, err)

	p := profile.Default()
	assert.Contains(t, out, "# "+p.Name)
	assert.Contains(t, out, p.Subtitle())
	assert.Contains(t, out, "## Core research areas")
	assert.Contains(t, out, "- "+p.Areas[0])
	assert.Contains(t, out, "- **Email:** "+p.Email)
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
}

func TestRenderProfile_Text(t *testing.T) {
	p, err := profile.Load(testutil.WriteFile(t, "me.yaml", testutil.ProfileYAML))
	require.NoError(t, err)

	r := testutil.NewTestRendererText()
	renderProfile(r.Renderer, p)

	assert.Contains(t, r.Output(), "Test Researcher")
	assert.Contains(t, r.Output(), "ORCID: https://orcid.org/0000-0000-0000-0000")
	assert.NotContains(t, r.Output(), profile.LinksHint)
}

func TestRenderProfile_LinksHint(t *testing.T) {
	r := testutil.NewTestRendererMarkdown()
	renderProfile(r.Renderer, profile.Default())

	assert.Contains(t, r.Output(), "_"+profile.LinksHint+"_")
}

func TestPubsCommand(t *testing.T) {
	path := testutil.WriteFile(t, "pubs.csv", testutil.PublicationsCSV)

	t.Run("no keyword", func(t *testing.T) {
		out, errOut, err := run(t, NewPubsCommand(), path)
		require.NoError(t, err)

		assert.Contains(t, out, "# Publications: pubs.csv (4 rows)")
		assert.Contains(t, out, "Malaria surveillance in border districts")
		assert.Contains(t, out, publications.FilterHint)
		assert.Contains(t, out, "| 2021 | 2 |")
		assert.Empty(t, errOut)
	})

	t.Run("keyword", func(t *testing.T) {
		out, _, err := run(t, NewPubsCommand(), path, "--keyword", "hiv")
		require.NoError(t, err)

		assert.Contains(t, out, "## Filtered Results for 'hiv':")
		assert.Contains(t, out, "HIV testing uptake among AGYW")
		assert.NotContains(t, out, "Malaria surveillance")
	})

	t.Run("missing year column", func(t *testing.T) {
		noYear := testutil.WriteFile(t, "titles.csv", "Title\nOnly a title\n")
		out, errOut, err := run(t, NewPubsCommand(), noYear)
		require.NoError(t, err)

		assert.Contains(t, out, "Only a title")
		assert.Contains(t, errOut, publications.MissingColumnWarning)
	})

	t.Run("stdin", func(t *testing.T) {
		cmd := NewPubsCommand()
		cmd.SetIn(strings.NewReader(testutil.PublicationsCSV))
		out, _, err := run(t, cmd, "-", "-k", "stewardship")
		require.NoError(t, err)

		assert.Contains(t, out, "# Publications: stdin (4 rows)")
		assert.Contains(t, out, "Antimicrobial stewardship knowledge survey")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, NewPubsCommand(), filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("empty file", func(t *testing.T) {
		empty := testutil.WriteFile(t, "empty.csv", "")
		_, _, err := run(t, NewPubsCommand(), empty)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Could not read the uploaded file as CSV")
	})
}

func TestDemoCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "default surveillance",
			want: []string{"# Weekly surveillance line list summary", "## Filtered results:", "Suspected Cases"},
		},
		{
			name:    "hiv threshold",
			args:    []string{"hiv", "--min-suppression", "75"},
			want:    []string{"Facilities with viral suppression ≥ 75%:", "AGYW Initiated ART"},
			notWant: []string{dashboard.NoMatchingRows},
		},
		{
			name: "stewardship no match",
			args: []string{"stewardship", "--min-score", "99"},
			want: []string{"Filtered programmes:", dashboard.NoMatchingRows},
		},
		{
			name: "list",
			args: []string{"--list"},
			want: []string{"# Demo datasets", "Weekly surveillance (synthetic)", dashboard.ExplorerIntro},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, NewDemoCommand(), tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
			testutil.AssertValidMarkdown(t, out)
		})
	}
}

func TestDemoCommand_UnknownDataset(t *testing.T) {
	_, _, err := run(t, NewDemoCommand(), "cholera")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dataset "cholera"`)
	assert.Contains(t, err.Error(), "surveillance, hiv, stewardship")
}

func TestDemoCommand_SVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	_, _, err := run(t, NewDemoCommand(), "hiv", "--svg", path)
	require.NoError(t, err)

	svg, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	oneWeek := filepath.Join(t.TempDir(), "week.svg")
	_, errOut, err := run(t, NewDemoCommand(), "surveillance", "--week-min", "5", "--week-max", "5", "--svg", oneWeek)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.FileExists(t, oneWeek)

	empty := filepath.Join(t.TempDir(), "none.svg")
	_, errOut, err = run(t, NewDemoCommand(), "stewardship", "--min-score", "100", "--svg", empty)
	require.NoError(t, err)
	assert.Contains(t, errOut, "No chart written.")
	assert.NoFileExists(t, empty)
}

func TestDemoParams(t *testing.T) {
	tests := []struct {
		name    string
		dataset demo.Dataset
		args    []string
		check   func(t *testing.T, p demo.Params)
	}{
		{
			name:    "defaults select every district",
			dataset: demo.Surveillance,
			check: func(t *testing.T, p demo.Params) {
				assert.Equal(t, demo.DefaultParams(), p)
				assert.Nil(t, p.Districts)
			},
		},
		{
			name:    "districts are normalised",
			dataset: demo.Surveillance,
			args:    []string{"--district", " c,a,z"},
			check: func(t *testing.T, p demo.Params) {
				assert.Equal(t, []string{"A", "C"}, p.Districts)
			},
		},
		{
			name:    "week range is clamped and ordered",
			dataset: demo.Surveillance,
			args:    []string{"--week-min", "40", "--week-max=-3"},
			check: func(t *testing.T, p demo.Params) {
				assert.Equal(t, 1, p.WeekMin)
				assert.Equal(t, 12, p.WeekMax)
			},
		},
		{
			name:    "threshold clamped",
			dataset: demo.HIVProgramme,
			args:    []string{"--min-suppression", "150"},
			check: func(t *testing.T, p demo.Params) {
				assert.Equal(t, demo.HIVProgramme, p.Dataset)
				assert.Equal(t, 100, p.MinSuppression)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewDemoCommand()
			require.NoError(t, cmd.ParseFlags(tt.args))

			opts := &DemoOptions{}
			opts.WeekMin, _ = cmd.Flags().GetInt("week-min")
			opts.WeekMax, _ = cmd.Flags().GetInt("week-max")
			opts.Districts, _ = cmd.Flags().GetStringSlice("district")
			opts.MinSuppression, _ = cmd.Flags().GetInt("min-suppression")
			opts.MinScore, _ = cmd.Flags().GetInt("min-score")

			tt.check(t, demoParams(cmd, tt.dataset, opts))
		})
	}
}

func TestDisplayHeaders(t *testing.T) {
	v := dashboard.RenderExplorer(demo.Params{Dataset: demo.HIVProgramme})

	assert.Equal(t,
		[]string{"Facility", "AGYW Initiated ART", "Viral Suppression %", "Interruptions %"},
		displayHeaders(v.Full))
}
