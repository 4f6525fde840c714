package context

import (
	"errors"
	"fmt"
)

// ErrAlreadyCommitted is returned by AddAction and Commit after a commit.
var ErrAlreadyCommitted = errors.New("request context already committed")

// ErrUnexpectedType is returned by Fetch when a memoized value has another type.
var ErrUnexpectedType = errors.New("unexpected memoized type")

// CommitError reports the action that failed during Commit and any
// rollbacks that failed afterwards.
type CommitError struct {
	Action    string
	Cause     error
	Rollbacks []error
}

func (e *CommitError) Error() string {
	if len(e.Rollbacks) > 0 {
		return fmt.Sprintf("action %q failed: %v (%d rollback failures)", e.Action, e.Cause, len(e.Rollbacks))
	}

	return fmt.Sprintf("action %q failed: %v", e.Action, e.Cause)
}

func (e *CommitError) Unwrap() error {
	return e.Cause
}
