// Package blog serves the editorial articles compiled into the binary.
package blog

import (
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

//go:embed posts.json
var postsJSON []byte

// Static implements ports.BlogRepository over a fixed post list.
type Static struct {
	posts  []*domain.BlogPost
	bySlug map[string]*domain.BlogPost
}

// NewStatic loads the embedded catalog.
func NewStatic() (*Static, error) {
	var posts []*domain.BlogPost
	if err := json.Unmarshal(postsJSON, &posts); err != nil {
		return nil, fmt.Errorf("decoding embedded posts: %w", err)
	}

	return NewStaticFrom(posts)
}

// NewStaticFrom builds a repository from posts. Slugs must be unique.
func NewStaticFrom(posts []*domain.BlogPost) (*Static, error) {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b *domain.BlogPost) int {
		return cmp.Compare(b.PublishedAt.Unix(), a.PublishedAt.Unix())
	})

	bySlug := make(map[string]*domain.BlogPost, len(sorted))
	for _, p := range sorted {
		if p.Slug == "" {
			return nil, domain.NewValidationError("slug", "is required")
		}

		if _, dup := bySlug[p.Slug]; dup {
			return nil, domain.NewConflictError("post", "duplicate slug "+p.Slug)
		}

		bySlug[p.Slug] = p
	}

	return &Static{posts: sorted, bySlug: bySlug}, nil
}

// ListPosts implements ports.BlogRepository.
func (s *Static) ListPosts(_ context.Context, filter domain.BlogFilter) ([]*domain.BlogPost, error) {
	out := make([]*domain.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		if filter.Match(p) {
			out = append(out, p)
		}
	}

	return out, nil
}

// GetPost implements ports.BlogRepository.
func (s *Static) GetPost(_ context.Context, slug string) (*domain.BlogPost, error) {
	p, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.NewNotFoundError("post", slug)
	}

	return p, nil
}
