package core

import "time"

// ApprovedOriginEntry is the persisted grant for a single origin.
type ApprovedOriginEntry struct {
	Permissions []PermissionScope `json:"permissions"`
	ConnectedAt time.Time         `json:"connectedAt"` // set at first approval, never updated
	LastSeenAt  time.Time         `json:"lastSeenAt"`  // updated on every silent or explicit approval
	DApp        DAppMetadata      `json:"dapp"`
}
