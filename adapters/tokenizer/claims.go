package tokenizer

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/rangda/core"
)

// SessionClaims combines standard claims with connect-session ones. The
// JWT ID carries the session identifier; Subject carries the origin.
type SessionClaims struct {
	jwt.RegisteredClaims
	DApp   core.DAppMetadata `json:"dapp"`
	Wallet string            `json:"wallet"` // hex address of the wallet that approved the session
}
