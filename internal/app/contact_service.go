package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

// ContactService looks up stored contact records.
type ContactService struct {
	directory ports.ContactDirectory
	logger    *slog.Logger
}

// NewContactService panics if directory is nil.
func NewContactService(directory ports.ContactDirectory, logger *slog.Logger) *ContactService {
	if directory == nil {
		panic("ContactService: directory is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContactService{
		directory: directory,
		logger:    logger.With(slog.String("component", "app.ContactService")),
	}
}

// GetContact returns the record whose id equals id. Blank ids and misses
// are domain.ErrNotFound.
func (s *ContactService) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewNotFoundError("contact", id)
	}

	contact, err := s.directory.FindContact(ctx, id)
	if err != nil {
		logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "contact lookup missed",
			slog.String("contact_id", id), slog.String("error", err.Error()))

		return nil, err
	}

	return contact, nil
}
