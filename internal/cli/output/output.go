// Package output renders command results for terminals, pipes and machines.
//
// In auto mode a terminal gets styled text and anything else gets markdown,
// so that piped output stays readable for scripts and agents.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	tbl "github.com/leapstack-labs/epiprofile/internal/table"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every accepted mode, for validation and flag completion.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeYAML)}
}

// Valid reports whether m is a known mode. The empty mode means auto.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return true
	}
	return false
}

// Renderer writes to stdout and stderr in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lipgloss.NewRenderer(out)),
	}
}

// EffectiveMode resolves auto to text or markdown.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Styles returns the text styles bound to stdout.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns stdout.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a heading followed by a blank line.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	r.Println(style.Render(text))
	r.Println("")
}

// KeyValue writes one labelled value.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(key, value))
		return
	}
	r.Printf("%s %s\n", r.styles.Bold.Render(key+":"), value)
}

// Muted writes secondary text.
func (r *Renderer) Muted(text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("_" + text + "_")
		return
	}
	r.Println(r.styles.Muted.Render(text))
}

// Success writes a confirmation line.
func (r *Renderer) Success(text string) {
	r.Println(r.styles.Success.Render(text))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: "+text))
}

// Table writes t as a boxed table in text mode and a pipe table in markdown.
// Headers, when given, replace the column names for display.
func (r *Renderer) Table(t *tbl.Table, headers ...string) {
	if t == nil {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)

	names := t.Columns
	if len(headers) == len(t.Columns) {
		names = headers
	}
	header := make(table.Row, len(names))
	for i, c := range names {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		cells := make(table.Row, len(row))
		for i, c := range row {
			cells[i] = c
		}
		tw.AppendRow(cells)
	}

	if r.EffectiveMode() == ModeMarkdown {
		tw.RenderMarkdown()
	} else {
		tw.Render()
	}
	r.Println("")
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Encode writes v in the structured mode, if one is selected.
// It reports false for text and markdown so the caller renders them itself.
func (r *Renderer) Encode(v any) (bool, error) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	default:
		return false, nil
	}
}

// FormatHeader returns a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
