package domain

import (
	"slices"
	"strings"
	"time"
)

// Author is the byline of a blog post.
type Author struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// SEO carries page metadata for a blog post.
type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// BlogPost is one static editorial article.
type BlogPost struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      Author    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	SEO         SEO       `json:"seo"`
}

// Paragraphs splits the content on blank lines.
func (p *BlogPost) Paragraphs() []string {
	var out []string

	for part := range strings.SplitSeq(p.Content, "\n\n") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// HasTag reports whether the post carries tag, ignoring case.
func (p *BlogPost) HasTag(tag string) bool {
	return slices.ContainsFunc(p.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// BlogFilter narrows a post listing. Empty fields match everything.
type BlogFilter struct {
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

// Match reports whether p passes the filter.
func (f BlogFilter) Match(p *BlogPost) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}

	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}

	return true
}
