package context

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// Action is a staged write.
type Action interface {
	// Execute performs the write.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute where possible.
	Rollback(ctx context.Context) error

	// Description names the action in logs and errors.
	Description() string
}

// AddAction stages an action for Commit.
func (rc *RequestContext) AddAction(action Action) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.actions = append(rc.actions, action)

	return nil
}

// Commit runs the staged actions in order. On the first failure the
// executed actions are rolled back in reverse order and a *CommitError is
// returned. A failed commit may not be retried.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.committed = true

	executed := make([]Action, 0, len(rc.actions))

	for _, action := range rc.actions {
		if err := action.Execute(ctx); err != nil {
			return rollback(ctx, executed, action, err)
		}

		executed = append(executed, action)
	}

	return nil
}

func rollback(ctx context.Context, executed []Action, failed Action, cause error) error {
	commitErr := &CommitError{Action: failed.Description(), Cause: cause}
	logger := logging.FromContext(ctx)

	for i := len(executed) - 1; i >= 0; i-- {
		if err := executed[i].Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("action", executed[i].Description()),
				slog.String("error", err.Error()),
			)

			commitErr.Rollbacks = append(commitErr.Rollbacks,
				fmt.Errorf("rolling back %q: %w", executed[i].Description(), err))
		}
	}

	return commitErr
}

// Actions returns a copy of the staged actions.
func (rc *RequestContext) Actions() []Action {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	result := make([]Action, len(rc.actions))
	copy(result, rc.actions)

	return result
}
