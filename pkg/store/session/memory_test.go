package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/license-atlas/pkg/models/domain"
)

func newSession(id string, expiresAt time.Time) *domain.Session {
	return &domain.Session{
		ID:        id,
		CreatedAt: expiresAt.Add(-time.Hour),
		ExpiresAt: expiresAt,
		Status:    domain.SessionStatusProcessing,
		Progress:  domain.Progress{CurrentStep: "fetching_workspace_data", TotalSteps: 4},
	}
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := newSession("s-1", time.Now().Add(time.Hour))
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	// Mutating the returned value must not leak into the store.
	got.Status = domain.SessionStatusFailed
	again, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusProcessing, again.Status)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.ID)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, newSession("s-1", time.Now().Add(time.Hour))))
	require.NoError(t, store.Delete(ctx, "s-1"))

	_, err := store.Get(ctx, "s-1")
	assert.Error(t, err)
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Put(ctx, newSession("live", now.Add(time.Hour))))
	require.NoError(t, store.Put(ctx, newSession("dead-1", now.Add(-time.Minute))))
	require.NoError(t, store.Put(ctx, newSession("dead-2", now.Add(-time.Hour))))

	assert.Equal(t, 2, store.PurgeExpired(now))

	_, err := store.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "dead-1")
	assert.Error(t, err)
}
