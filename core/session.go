package core

// ConnectSession is the ephemeral handle for an active connection.
// It is never persisted; it exists only between an approved connect
// and the matching disconnect, and is what intent and disconnect
// callers present to identify themselves.
type ConnectSession struct {
	SessionID string       `json:"sessionId"`
	DApp      DAppMetadata `json:"dapp"`
	Origin    Origin       `json:"origin"`
}
