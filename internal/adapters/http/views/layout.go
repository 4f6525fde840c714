package views

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Layout wraps body in the site chrome.
func Layout(meta PageMeta, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := meta.Site.Name
		if meta.Title != "" {
			title = meta.Title + " | " + meta.Site.Name
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)

		if meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", meta.Description)
			h.raw(`>`)
		}

		if len(meta.Keywords) > 0 {
			h.raw(`<meta name="keywords"`)
			h.attr("content", strings.Join(meta.Keywords, ", "))
			h.raw(`>`)
		}

		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<link rel="stylesheet" href="/static/site.css"></head><body>`)

		if meta.Site.Banner != "" {
			h.raw(`<div class="site-banner" role="status">`)
			h.text(meta.Site.Banner)
			h.raw(`</div>`)
		}

		h.raw(`<header class="site-header"><a class="brand" href="/">`)
		h.text(meta.Site.Name)
		h.raw(`</a><nav><a href="/">Insurance</a><a href="/blog">Blog</a>`)

		if meta.Site.Phone != "" {
			h.raw(`<a class="call"`)
			h.href("tel:" + meta.Site.Phone)
			h.raw(`>`)
			h.text(meta.Site.Phone)
			h.raw(`</a>`)
		}

		h.raw(`</nav></header><main>`)
		h.render(ctx, body)
		h.raw(`</main><footer class="site-footer"><p>&copy; `)
		h.itoa(time.Now().Year())
		h.raw(` `)
		h.text(meta.Site.Name)
		h.raw(`</p>`)

		if meta.Site.Email != "" {
			h.raw(`<p><a`)
			h.href("mailto:" + meta.Site.Email)
			h.raw(`>`)
			h.text(meta.Site.Email)
			h.raw(`</a></p>`)
		}

		h.raw(`</footer></body></html>`)
	})
}

// ErrorPage is the body for 404 and 500 pages.
func ErrorPage(heading, message string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="error-page"><h1>`)
		h.text(heading)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><p><a href="/">Back to home</a></p></section>`)
	})
}

func banner(kind, message string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if message == "" {
			return
		}

		h.raw(`<div`)
		h.attr("class", "banner banner-"+kind)
		h.raw(` role="alert">`)
		h.text(message)
		h.raw(`</div>`)
	})
}
