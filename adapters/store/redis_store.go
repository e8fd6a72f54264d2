package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the ApprovalStore interface.
// Entries are JSON documents keyed by origin under a common prefix. A
// store-scoped mutex serializes read-modify-write sequences so a revoke
// racing an upsert cannot produce a lost update.
type RedisStore struct {
	client *redis.Client
	prefix string
	mu     sync.Mutex
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client) ports.ApprovalStore {
	return &RedisStore{
		client: client,
		prefix: "rangda:approved:",
	}
}

func (s *RedisStore) key(origin core.Origin) string {
	return s.prefix + string(origin)
}

func (s *RedisStore) get(ctx context.Context, origin core.Origin) (*core.ApprovedOriginEntry, error) {
	raw, err := s.client.Get(ctx, s.key(origin)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read grant: %w", err)
	}

	var entry core.ApprovedOriginEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode grant: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) put(ctx context.Context, origin core.Origin, entry *core.ApprovedOriginEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode grant: %w", err)
	}
	if err := s.client.Set(ctx, s.key(origin), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write grant: %w", err)
	}
	return nil
}

// Get returns the grant for origin, or nil when none exists.
func (s *RedisStore) Get(ctx context.Context, origin core.Origin) (*core.ApprovedOriginEntry, error) {
	return s.get(ctx, origin)
}

// Upsert creates or replaces the grant for origin, preserving ConnectedAt
// on replacement.
func (s *RedisStore) Upsert(ctx context.Context, origin core.Origin, dapp core.DAppMetadata, permissions []core.PermissionScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	entry, err := s.get(ctx, origin)
	if err != nil {
		return err
	}

	if entry == nil {
		entry = &core.ApprovedOriginEntry{ConnectedAt: now}
	}
	entry.Permissions = permissions
	entry.DApp = dapp
	entry.LastSeenAt = now

	return s.put(ctx, origin, entry)
}

// Touch updates LastSeenAt only. Touching an absent origin is a no-op.
func (s *RedisStore) Touch(ctx context.Context, origin core.Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.get(ctx, origin)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	entry.LastSeenAt = time.Now().UTC()

	return s.put(ctx, origin, entry)
}

// Revoke removes the grant for origin; idempotent.
func (s *RedisStore) Revoke(ctx context.Context, origin core.Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.Del(ctx, s.key(origin)).Err(); err != nil {
		return fmt.Errorf("failed to revoke grant: %w", err)
	}
	return nil
}

// ListAll returns every grant, scanned at call time.
func (s *RedisStore) ListAll(ctx context.Context) (map[core.Origin]core.ApprovedOriginEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[core.Origin]core.ApprovedOriginEntry)
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		origin := core.Origin(strings.TrimPrefix(key, s.prefix))
		entry, err := s.get(ctx, origin)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries[origin] = *entry
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan grants: %w", err)
	}
	return entries, nil
}
