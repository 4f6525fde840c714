package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

// BlogService reads the article catalog.
type BlogService struct {
	repo ports.BlogRepository
}

// NewBlogService panics if repo is nil.
func NewBlogService(repo ports.BlogRepository) *BlogService {
	if repo == nil {
		panic("BlogService: repository is required")
	}

	return &BlogService{repo: repo}
}

// ListPosts returns the posts matching filter, newest first.
func (s *BlogService) ListPosts(ctx context.Context, filter domain.BlogFilter) ([]*domain.BlogPost, error) {
	posts, err := s.repo.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// GetPost returns one post by slug.
func (s *BlogService) GetPost(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.repo.GetPost(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}

	return post, nil
}

// Categories returns the distinct categories in catalog order.
func (s *BlogService) Categories(ctx context.Context) ([]string, error) {
	posts, err := s.ListPosts(ctx, domain.BlogFilter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(posts))
	out := make([]string, 0, len(posts))

	for _, p := range posts {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}

		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}

	return out, nil
}
