package domain

import (
	"fmt"
	"time"
)

// ValidationError reports malformed or inconsistent input, rejected at the
// boundary closest to its source.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports a state-machine operation applied to a
// session that is already terminal.
type InvalidTransitionError struct {
	SessionID string
	Status    SessionStatus
	Op        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("session %s: cannot %s from status %q", e.SessionID, e.Op, e.Status)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ExpiredError is returned on session lookup past the TTL, regardless of the
// stored status.
type ExpiredError struct {
	SessionID string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("session %s expired at %s", e.SessionID, e.ExpiredAt.Format(time.RFC3339))
}

// EmptyInputError reports an aggregation request with no license records.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no license records to aggregate"
}

// InvalidRecordError reports a license record violating an aggregation
// precondition; the record index refers to the input sequence.
type InvalidRecordError struct {
	Index  int
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid license record at index %d: %s", e.Index, e.Reason)
}
