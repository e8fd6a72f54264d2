package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// ApprovalStore is the durable mapping from origin to granted-permission
// record. Implementations must serialize read-modify-write sequences to the
// same key; a revoke from the administrative surface may race an upsert
// from an approval resolution.
type ApprovalStore interface {
	// Get returns the entry for origin, or nil when none exists.
	Get(ctx context.Context, origin core.Origin) (*core.ApprovedOriginEntry, error)

	// Upsert creates or replaces the grant for origin. A new entry gets
	// ConnectedAt = LastSeenAt = now; an existing entry keeps its
	// original ConnectedAt and has permissions, dapp and LastSeenAt
	// replaced.
	Upsert(ctx context.Context, origin core.Origin, dapp core.DAppMetadata, permissions []core.PermissionScope) error

	// Touch updates LastSeenAt only. Used on silent re-approval.
	Touch(ctx context.Context, origin core.Origin) error

	// Revoke removes the entry for origin. Revoking an absent origin is
	// not an error.
	Revoke(ctx context.Context, origin core.Origin) error

	// ListAll returns a consistent snapshot of every grant.
	ListAll(ctx context.Context) (map[core.Origin]core.ApprovedOriginEntry, error)
}
