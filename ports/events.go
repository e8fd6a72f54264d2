package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// EventPublisher is the observability channel for grant lifecycle changes
// and store failures. Publish failures never fail the operation that
// triggered them.
type EventPublisher interface {
	PublishGrantUpserted(ctx context.Context, origin core.Origin, entry core.ApprovedOriginEntry) error
	PublishGrantRevoked(ctx context.Context, origin core.Origin) error

	// PublishStoreFailure reports a persistence failure whose in-memory
	// decision has already been returned to the caller, so the grant
	// must be considered ephemeral.
	PublishStoreFailure(ctx context.Context, op string, origin core.Origin, cause error) error
}
