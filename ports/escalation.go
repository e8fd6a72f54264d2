package ports

import "context"

// Escalator brings the approval or intent surface to the user's attention.
// Both operations are fire-and-forget: failure to present is tolerated and
// never aborts the pending request, the timeout remains the fallback.
type Escalator interface {
	RequestApprovalAttention(ctx context.Context, approvalID string) error
	RequestIntentAttention(ctx context.Context, intentID string) error
}
