package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/de-tools/license-atlas/pkg/adapters"
	"github.com/de-tools/license-atlas/pkg/models/api"
	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/store/session"
)

const keyPrefix = "licenseatlas:session:"

// expiredRetention keeps a session readable for a while past its TTL so
// lookups can distinguish "expired" from "never existed". After the retention
// window the key is gone and lookups report not found.
const expiredRetention = 24 * time.Hour

// commands is the subset of redis.Client the store issues.
type commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type sessionStore struct {
	client commands
}

// NewSessionStore returns a Redis-backed session store. Sessions are stored
// as JSON under their wire shape, so a value written by one node round-trips
// identically on another.
func NewSessionStore(client *redis.Client) session.Store {
	return &sessionStore{client: client}
}

func (s *sessionStore) Put(ctx context.Context, sess *domain.Session) error {
	payload, err := json.Marshal(adapters.MapSessionDomainToApi(sess))
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	ttl := time.Until(sess.ExpiresAt) + expiredRetention
	if ttl <= 0 {
		ttl = expiredRetention
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &domain.NotFoundError{Kind: "session", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var wire api.Session
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return adapters.MapSessionApiToDomain(wire), nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
