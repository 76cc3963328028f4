// Package profile defines the researcher profile shown by the dashboard and
// loads it from an optional YAML file.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Profile is the static researcher record. Treat it as immutable once loaded.
type Profile struct {
	Name        string   `koanf:"name" json:"name" yaml:"name"`
	Title       string   `koanf:"title" json:"title" yaml:"title"`
	Institution string   `koanf:"institution" json:"institution" yaml:"institution"`
	Location    string   `koanf:"location" json:"location" yaml:"location"`
	Email       string   `koanf:"email" json:"email" yaml:"email"`
	About       string   `koanf:"about" json:"about" yaml:"about"`
	Areas       []string `koanf:"areas" json:"areas" yaml:"areas"`
	Image       Image    `koanf:"image" json:"image" yaml:"image"`
	Metrics     []Metric `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Links       []Link   `koanf:"links" json:"links" yaml:"links"`
	Footer      string   `koanf:"footer" json:"footer" yaml:"footer"`
}

// Image is the header picture.
type Image struct {
	URL     string `koanf:"url" json:"url" yaml:"url"`
	Caption string `koanf:"caption" json:"caption" yaml:"caption"`
}

// Metric is one at-a-glance figure.
type Metric struct {
	Label string `koanf:"label" json:"label" yaml:"label"`
	Value string `koanf:"value" json:"value" yaml:"value"`
}

// Link is an external profile link. Links with a blank URL are not shown.
type Link struct {
	Label string `koanf:"label" json:"label" yaml:"label"`
	URL   string `koanf:"url" json:"url" yaml:"url"`
}

// LinksHint is shown in place of the links list when none are set.
const LinksHint = "Add your ORCID / Google Scholar / LinkedIn / GitHub links in the profile file if you want them displayed."

// Subtitle joins title, institution and location the way the page header shows them.
func (p *Profile) Subtitle() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Title, p.Institution, p.Location} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}

// VisibleLinks returns the links that have a non-blank URL, in order.
func (p *Profile) VisibleLinks() []Link {
	var out []Link
	for _, l := range p.Links {
		if strings.TrimSpace(l.URL) != "" {
			out = append(out, Link{Label: l.Label, URL: strings.TrimSpace(l.URL)})
		}
	}
	return out
}

// Validate checks the fields the page cannot render without.
func (p *Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("profile name is required"))
	}
	for i, l := range p.Links {
		if strings.TrimSpace(l.Label) == "" {
			errs = append(errs, fmt.Errorf("links[%d]: label is required", i))
		}
	}
	for i, m := range p.Metrics {
		if strings.TrimSpace(m.Label) == "" {
			errs = append(errs, fmt.Errorf("metrics[%d]: label is required", i))
		}
	}
	return errors.Join(errs...)
}

// Default returns the built-in profile.
func Default() *Profile {
	return &Profile{
		Name:        "Mr. Donald Tshabalala",
		Title:       "Epidemiologist & Biostatistics Researcher",
		Institution: "Sefako Makgatho Health Sciences University (SMU)",
		Location:    "South Africa",
		Email:       "donald.tshabalala@icloud.com",
		About: "I work at the intersection of epidemiology, biostatistics, and health systems strengthening. " +
			"My research focuses on generating actionable evidence for policy and practice, particularly in HIV " +
			"program outcomes, antimicrobial stewardship, and workforce dynamics within the South African health system.",
		Areas: []string{
			"HIV epidemiology (AGYW treatment uptake, viral suppression, ART interruption)",
			"Infectious disease surveillance and program evaluation",
			"Applied biostatistics (regression modelling, longitudinal analysis)",
			"Health systems & workforce research (e.g., nurse attrition and service delivery)",
			"Antimicrobial stewardship knowledge and practice research",
			"Data science for public health (R, Stata, Python, Streamlit dashboards)",
		},
		Image: Image{
			URL:     "https://images.pexels.com/photos/3786157/pexels-photo-3786157.jpeg",
			Caption: "Public health & data science (royalty-free image)",
		},
		Metrics: []Metric{
			{Label: "Active projects", Value: "6"},
			{Label: "Primary tools", Value: "R • Stata • Python"},
			{Label: "Focus population", Value: "AGYW"},
			{Label: "Preferred outputs", Value: "Policy-ready evidence"},
		},
		Links: []Link{
			{Label: "ORCID"},
			{Label: "Google Scholar"},
			{Label: "LinkedIn"},
			{Label: "GitHub"},
		},
		Footer: "Profile template for CSS2026",
	}
}

// Load reads a YAML profile file over the built-in profile.
// An empty path returns Default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load profile defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading profile file %s: %w", path, err)
	}

	var p Profile
	if err := k.Unmarshal("", &p); err != nil {
		return nil, fmt.Errorf("unable to decode profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

// defaultsMap flattens Default for the confmap provider.
// Lists are replaced wholesale by a file that sets them.
func defaultsMap() map[string]interface{} {
	d := Default()

	metrics := make([]interface{}, len(d.Metrics))
	for i, m := range d.Metrics {
		metrics[i] = map[string]interface{}{"label": m.Label, "value": m.Value}
	}
	links := make([]interface{}, len(d.Links))
	for i, l := range d.Links {
		links[i] = map[string]interface{}{"label": l.Label, "url": l.URL}
	}
	areas := make([]interface{}, len(d.Areas))
	for i, a := range d.Areas {
		areas[i] = a
	}

	return map[string]interface{}{
		"name":          d.Name,
		"title":         d.Title,
		"institution":   d.Institution,
		"location":      d.Location,
		"email":         d.Email,
		"about":         d.About,
		"areas":         areas,
		"image.url":     d.Image.URL,
		"image.caption": d.Image.Caption,
		"metrics":       metrics,
		"links":         links,
		"footer":        d.Footer,
	}
}

// Source holds the current profile and swaps it on Reload.
// It is safe for concurrent use.
type Source struct {
	path    string
	current atomic.Pointer[Profile]
}

// NewSource loads the profile at path (or the default when path is empty).
func NewSource(path string) (*Source, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Source{path: path}
	s.current.Store(p)
	return s, nil
}

// Static wraps a fixed profile.
func Static(p *Profile) *Source {
	s := &Source{}
	s.current.Store(p)
	return s
}

// Path returns the backing file, or "" for a built-in or static profile.
func (s *Source) Path() string {
	return s.path
}

// Current returns the active profile.
func (s *Source) Current() *Profile {
	return s.current.Load()
}

// Reload re-reads the backing file. On error the previous profile is kept.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	p, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}
