package core

// ConnectDecision is the definite answer every connection request receives.
type ConnectDecision struct {
	Approved           bool
	GrantedPermissions []PermissionScope
}

// ApprovalResolution is what the approval surface reports back for a
// pending connection request.
type ApprovalResolution struct {
	Approved           bool
	GrantedPermissions []PermissionScope
}

// PendingApprovalInfo is the public view of the current pending connection
// approval. It never carries the resolver.
type PendingApprovalInfo struct {
	ID                   string            `json:"id"`
	DApp                 DAppMetadata      `json:"dapp"`
	RequestedPermissions []PermissionScope `json:"requestedPermissions"`
}

// PendingIntentInfo is the public view of the current pending intent.
type PendingIntentInfo struct {
	ID      string         `json:"id"`
	Action  IntentAction   `json:"action"`
	Params  IntentParams   `json:"params"`
	Session ConnectSession `json:"session"`
}
