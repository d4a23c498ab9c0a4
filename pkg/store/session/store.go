package session

import (
	"context"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

// Store persists session snapshots. Implementations return the stored value,
// not a live reference; callers never observe a torn session. Serialization
// of writers is the session manager's job, not the store's.
type Store interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// Clone returns a deep copy of a session so stored state cannot be mutated
// through a handed-out reference.
func Clone(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Progress.EstimatedTimeRemaining != nil {
		v := *s.Progress.EstimatedTimeRemaining
		out.Progress.EstimatedTimeRemaining = &v
	}
	if s.Error != nil {
		e := *s.Error
		if s.Error.Details != nil {
			e.Details = make(map[string]any, len(s.Error.Details))
			for k, v := range s.Error.Details {
				e.Details[k] = v
			}
		}
		out.Error = &e
	}
	return &out
}
