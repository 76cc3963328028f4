package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, "Mr. Donald Tshabalala", p.Name)
	assert.Len(t, p.Areas, 6)
	assert.Len(t, p.Metrics, 4)
	assert.Equal(t, "Active projects", p.Metrics[0].Label)
	assert.Equal(t, "6", p.Metrics[0].Value)
	assert.Empty(t, p.VisibleLinks(), "no link URLs are set by default")
	require.NoError(t, p.Validate())
}

func TestSubtitle(t *testing.T) {
	p := Default()
	assert.Equal(t,
		"Epidemiologist & Biostatistics Researcher • Sefako Makgatho Health Sciences University (SMU) • South Africa",
		p.Subtitle())

	p.Institution = "  "
	assert.Equal(t, "Epidemiologist & Biostatistics Researcher • South Africa", p.Subtitle())
}

func TestVisibleLinks(t *testing.T) {
	p := &Profile{Links: []Link{
		{Label: "ORCID", URL: " https://orcid.org/0000-0000 "},
		{Label: "Google Scholar"},
		{Label: "GitHub", URL: "https://github.com/example"},
	}}

	assert.Equal(t, []Link{
		{Label: "ORCID", URL: "https://orcid.org/0000-0000"},
		{Label: "GitHub", URL: "https://github.com/example"},
	}, p.VisibleLinks())
}

func TestLoad_EmptyPath(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeProfile(t, `
name: Dr. Jane Doe
image:
  url: https://example.org/me.png
links:
  - label: ORCID
    url: https://orcid.org/0000-0001
  - label: GitHub
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Dr. Jane Doe", p.Name)
	assert.Equal(t, "Epidemiologist & Biostatistics Researcher", p.Title, "unset keys keep their default")
	assert.Equal(t, "https://example.org/me.png", p.Image.URL)
	assert.Equal(t, Default().Image.Caption, p.Image.Caption)
	assert.Len(t, p.Links, 2, "lists are replaced, not merged")
	assert.Equal(t, []Link{{Label: "ORCID", URL: "https://orcid.org/0000-0001"}}, p.VisibleLinks())
	assert.Len(t, p.Metrics, 4)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantErr: "error reading profile file",
		},
		{
			name:    "malformed yaml",
			path:    func(t *testing.T) string { return writeProfile(t, "name: [unclosed") },
			wantErr: "error reading profile file",
		},
		{
			name:    "blank name",
			path:    func(t *testing.T) string { return writeProfile(t, "name: \"  \"\n") },
			wantErr: "profile name is required",
		},
		{
			name: "link without label",
			path: func(t *testing.T) string {
				return writeProfile(t, "links:\n  - url: https://example.org\n")
			},
			wantErr: "links[0]: label is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSource_Reload(t *testing.T) {
	path := writeProfile(t, "name: First\n")

	src, err := NewSource(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())
	assert.Equal(t, "First", src.Current().Name)

	require.NoError(t, os.WriteFile(path, []byte("name: Second\n"), 0o600))
	require.NoError(t, src.Reload())
	assert.Equal(t, "Second", src.Current().Name)

	require.NoError(t, os.WriteFile(path, []byte("name: \"\"\n"), 0o600))
	require.Error(t, src.Reload())
	assert.Equal(t, "Second", src.Current().Name, "a failed reload keeps the previous profile")
}

func TestSource_Static(t *testing.T) {
	p := &Profile{Name: "Fixed"}
	src := Static(p)

	assert.Same(t, p, src.Current())
	assert.Empty(t, src.Path())
	require.NoError(t, src.Reload())
	assert.Same(t, p, src.Current())
}

func TestNewSource_InvalidFile(t *testing.T) {
	_, err := NewSource(writeProfile(t, "name: \"\"\n"))
	require.Error(t, err)
}
