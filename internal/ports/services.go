// Package ports defines the contracts the application layer depends on.
// Adapters implement them; every method takes a context first, returns
// domain types, and reports failures as domain errors.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// QuoteClient is the quote-management backend. Every quote type lives under
// its own collection path, e.g. /Auto or /Health.
//
// Implementations map transport failures to domain.ErrUnavailable, 404 to
// domain.ErrNotFound, 400/422 to domain.ErrValidation and 409 to
// domain.ErrConflict. CreateQuote must never be retried.
type QuoteClient interface {
	CreateQuote(ctx context.Context, t domain.QuoteType, q *domain.Quote) (*domain.Quote, error)
	ListQuotes(ctx context.Context, t domain.QuoteType, page, pageSize int) (*domain.QuotePage, error)
	GetQuote(ctx context.Context, t domain.QuoteType, id string) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, t domain.QuoteType, id string, q *domain.Quote) (*domain.Quote, error)
	DeleteQuote(ctx context.Context, t domain.QuoteType, id string) error
	SearchQuotes(ctx context.Context, t domain.QuoteType, query string) ([]*domain.Quote, error)
	GetQuoteStats(ctx context.Context, t domain.QuoteType) (*domain.QuoteStats, error)
}

// ContactDirectory looks up contact records by id.
// A missing record, or an unreadable source, is domain.ErrNotFound.
type ContactDirectory interface {
	FindContact(ctx context.Context, id string) (domain.Contact, error)
}

// BlogRepository serves the read-only article catalog.
type BlogRepository interface {
	// ListPosts returns matching posts, newest first.
	ListPosts(ctx context.Context, filter domain.BlogFilter) ([]*domain.BlogPost, error)

	// GetPost returns domain.ErrNotFound for an unknown slug.
	GetPost(ctx context.Context, slug string) (*domain.BlogPost, error)
}

// QuoteExporter renders quotes into a downloadable document.
type QuoteExporter interface {
	// ContentType is the MIME type of the written document.
	ContentType() string

	// Export writes quotes of one product type to w.
	Export(ctx context.Context, schema *domain.ProductSchema, quotes []*domain.Quote, w io.Writer) error
}

// Cache stores opaque values with an expiry. Boat wizard drafts live here.
type Cache interface {
	// Get returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
