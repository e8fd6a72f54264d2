package ports

import "github.com/layer-3/rangda/core"

// SessionCodec converts between connect sessions and the signed tokens
// dApps present with intent and disconnect requests.
type SessionCodec interface {
	SessionToToken(session *core.ConnectSession) (string, error)
	TokenToSession(token string) (*core.ConnectSession, error)
}
