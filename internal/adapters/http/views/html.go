// Package views renders the public site as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Site carries the agency details shown on every page.
type Site struct {
	Name   string
	Phone  string
	Email  string
	Banner string
}

// PageMeta is the per-page head content.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	Site        Site
}

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}

		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) flag(name string, on bool) {
	if on {
		h.raw(" ", name)
	}
}

func (h *htmlWriter) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

func (h *htmlWriter) itoa(n int) {
	h.raw(strconv.Itoa(n))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}

	h.err = c.Render(ctx, h.w)
}

// component adapts a write function into a templ.Component.
func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)

		return h.err
	})
}
