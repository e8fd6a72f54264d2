package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// MemoryStore is an in-memory implementation of the ApprovalStore interface.
type MemoryStore struct {
	entries map[core.Origin]core.ApprovedOriginEntry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() ports.ApprovalStore {
	return &MemoryStore{
		entries: make(map[core.Origin]core.ApprovedOriginEntry),
	}
}

// Get returns the grant for origin, or nil when none exists.
func (s *MemoryStore) Get(ctx context.Context, origin core.Origin) (*core.ApprovedOriginEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[origin]
	if !exists {
		return nil, nil
	}
	return &entry, nil
}

// Upsert creates or replaces the grant for origin, preserving ConnectedAt
// on replacement.
func (s *MemoryStore) Upsert(ctx context.Context, origin core.Origin, dapp core.DAppMetadata, permissions []core.PermissionScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	entry, exists := s.entries[origin]
	if !exists {
		entry = core.ApprovedOriginEntry{ConnectedAt: now}
	}
	entry.Permissions = permissions
	entry.DApp = dapp
	entry.LastSeenAt = now

	s.entries[origin] = entry
	return nil
}

// Touch updates LastSeenAt only. Touching an absent origin is a no-op.
func (s *MemoryStore) Touch(ctx context.Context, origin core.Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[origin]
	if !exists {
		return nil
	}
	entry.LastSeenAt = time.Now().UTC()
	s.entries[origin] = entry
	return nil
}

// Revoke removes the grant for origin; idempotent.
func (s *MemoryStore) Revoke(ctx context.Context, origin core.Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, origin)
	return nil
}

// ListAll returns a snapshot of every grant.
func (s *MemoryStore) ListAll(ctx context.Context) (map[core.Origin]core.ApprovedOriginEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[core.Origin]core.ApprovedOriginEntry, len(s.entries))
	for origin, entry := range s.entries {
		entries[origin] = entry
	}
	return entries, nil
}
