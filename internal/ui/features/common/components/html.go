// Package components provides the shared page shell and building blocks
// used by every UI feature.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup to w and remembers the first error.
// Everything passed to Text and Attr is escaped; Raw is written as is.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes trusted markup.
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Text writes escaped text content.
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with value escaped.
func (h *HTML) Attr(name, value string) *HTML {
	return h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// Component renders c in place.
func (h *HTML) Component(ctx context.Context, c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
	return h
}

// Err returns the first write or render error.
func (h *HTML) Err() error {
	return h.err
}

// Func adapts a markup builder to templ.Component.
func Func(build func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		build(ctx, h)
		return h.Err()
	})
}
