package views

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

const dateLayout = "January 2, 2006"

// BlogIndex lists posts with category filters.
func BlogIndex(posts []*domain.BlogPost, categories []string, filter domain.BlogFilter) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="blog"><h1>Insurance Insights</h1><nav class="categories"><a href="/blog"`)
		h.flag("aria-current", filter.Category == "")
		h.raw(`>All</a>`)

		for _, c := range categories {
			h.raw(`<a`)
			h.href("/blog?category=" + url.QueryEscape(c))
			h.flag("aria-current", c == filter.Category)
			h.raw(`>`)
			h.text(c)
			h.raw(`</a>`)
		}

		h.raw(`</nav>`)

		if len(posts) == 0 {
			h.raw(`<p class="empty">No articles match this filter yet.</p></section>`)
			return
		}

		h.raw(`<ul class="post-list">`)

		for _, p := range posts {
			h.raw(`<li><article><h2><a`)
			h.href("/blog/" + p.Slug)
			h.raw(`>`)
			h.text(p.Title)
			h.raw(`</a></h2><p class="meta">`)
			h.text(p.Category)
			h.raw(` &middot; `)
			h.text(p.PublishedAt.Format(dateLayout))
			h.raw(`</p><p>`)
			h.text(p.Excerpt)
			h.raw(`</p></article></li>`)
		}

		h.raw(`</ul></section>`)
	})
}

// BlogPostPage renders one article.
func BlogPostPage(p *domain.BlogPost) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<article class="post"><header><p class="meta"><a`)
		h.href("/blog?category=" + url.QueryEscape(p.Category))
		h.raw(`>`)
		h.text(p.Category)
		h.raw(`</a></p><h1>`)
		h.text(p.Title)
		h.raw(`</h1><p class="byline">By `)
		h.text(p.Author.Name)

		if p.Author.Title != "" {
			h.raw(`, `)
			h.text(p.Author.Title)
		}

		h.raw(` &middot; <time`)
		h.attr("datetime", p.PublishedAt.Format("2006-01-02"))
		h.raw(`>`)
		h.text(p.PublishedAt.Format(dateLayout))
		h.raw(`</time></p></header>`)

		for _, para := range p.Paragraphs() {
			h.raw(`<p>`)
			h.text(para)
			h.raw(`</p>`)
		}

		if len(p.Tags) > 0 {
			h.raw(`<footer><ul class="tags">`)

			for _, t := range p.Tags {
				h.raw(`<li><a`)
				h.href("/blog?tag=" + url.QueryEscape(t))
				h.raw(`>`)
				h.text(t)
				h.raw(`</a></li>`)
			}

			h.raw(`</ul></footer>`)
		}

		h.raw(`</article>`)
	})
}

// BlogPostMeta builds the head metadata from the post's SEO block.
func BlogPostMeta(p *domain.BlogPost, site Site) PageMeta {
	meta := PageMeta{
		Title:       p.SEO.MetaTitle,
		Description: p.SEO.MetaDescription,
		Keywords:    p.SEO.Keywords,
		Site:        site,
	}

	if meta.Title == "" {
		meta.Title = p.Title
	}

	if meta.Description == "" {
		meta.Description = p.Excerpt
	}

	return meta
}
