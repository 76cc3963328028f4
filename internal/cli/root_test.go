package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/epiprofile/internal/cli/config"
	"github.com/leapstack-labs/epiprofile/internal/cli/testutil"
)

// execute runs the root command from an empty working directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"serve", "profile", "pubs", "demo", "version", "completion"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
	for _, flag := range []string{"config", "profile", "log-level", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "epiprofile v"+Version)
}

func TestRootCommand_ProfileJSON(t *testing.T) {
	path := testutil.WriteFile(t, "me.yaml", testutil.ProfileYAML)

	out, _, err := execute(t, "profile", "--profile", path, "--output", "json")
	require.NoError(t, err)

	var got struct {
		Name  string `json:"name"`
		Links []struct {
			Label string `json:"label"`
			URL   string `json:"url"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Test Researcher", got.Name)
	require.Len(t, got.Links, 1)
	assert.Equal(t, "ORCID", got.Links[0].Label)
}

func TestRootCommand_ProfileFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "me.yaml"), []byte(testutil.ProfileYAML), 0600))
	cfgPath := filepath.Join(dir, "epiprofile.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("profile_path: me.yaml\noutput: yaml\n"), 0600))

	out, _, err := execute(t, "--config", cfgPath, "profile")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Test Researcher", got["name"])
}

func TestRootCommand_PubsJSON(t *testing.T) {
	path := testutil.WriteFile(t, "pubs.csv", testutil.PublicationsCSV)

	out, _, err := execute(t, "pubs", path, "-k", "surveillance", "-o", "json")
	require.NoError(t, err)

	var got struct {
		File    string              `json:"file"`
		Rows    int                 `json:"rows"`
		Applied bool                `json:"filter_applied"`
		Matches []map[string]string `json:"matches"`
		Trend   struct {
			Status  string `json:"status"`
			Dropped int    `json:"dropped"`
			Counts  []struct {
				Year  int `json:"year"`
				Count int `json:"count"`
			} `json:"counts"`
		} `json:"trend"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "pubs.csv", got.File)
	assert.Equal(t, 4, got.Rows)
	assert.True(t, got.Applied)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "Malaria Journal", got.Matches[0]["Journal"])
	assert.Equal(t, "ok", got.Trend.Status)
	assert.Equal(t, 1, got.Trend.Dropped)
	require.Len(t, got.Trend.Counts, 2)
	assert.Equal(t, 2021, got.Trend.Counts[1].Year)
	assert.Equal(t, 2, got.Trend.Counts[1].Count)
}

func TestRootCommand_DemoYAML(t *testing.T) {
	out, _, err := execute(t, "demo", "surveillance", "--district", "B", "-o", "yaml")
	require.NoError(t, err)

	var got struct {
		Dataset  string              `yaml:"dataset"`
		Total    int                 `yaml:"total_rows"`
		Filtered []map[string]string `yaml:"filtered"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))

	assert.Equal(t, "surveillance", got.Dataset)
	assert.Equal(t, 12, got.Total)
	require.Len(t, got.Filtered, 4)
	for _, row := range got.Filtered {
		assert.Equal(t, "B", row["District"])
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{name: "unknown output", args: []string{"profile", "-o", "csv"}, errSubstr: "unknown output format"},
		{name: "unknown log level", args: []string{"profile", "--log-level", "loud"}, errSubstr: "unknown log_level"},
		{name: "missing config file", args: []string{"--config", "nope.yaml", "profile"}, errSubstr: "error reading config file"},
		{name: "missing profile", args: []string{"profile", "--profile", "nope.yaml"}, errSubstr: "nope.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	out, errOut, err := execute(t, "-v", "demo", "hiv")
	require.NoError(t, err)

	assert.Contains(t, out, "Facilities with viral suppression")
	assert.Contains(t, errOut, "demo explored")
	assert.NotContains(t, out, "demo explored")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "epiprofile")

	_, _, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}
