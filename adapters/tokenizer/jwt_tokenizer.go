package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

// AudienceSession scopes session tokens so they cannot be confused with
// other token kinds.
const AudienceSession = "connect:session"

// DefaultSessionTTL bounds how long an issued session token stays usable.
const DefaultSessionTTL = 24 * time.Hour

// WalletSource yields the wallet handle currently bound to the host.
// (*service.ConnectHost).Wallet satisfies it.
type WalletSource func() (core.WalletHandle, bool)

// JWTSessionCodec implements the SessionCodec interface using JWT signed
// with the wallet's P-256 session key. The wallet source is consulted on
// every operation, so tokens issued before a lock/unlock cycle stop
// verifying once the wallet carries a fresh session key.
type JWTSessionCodec struct {
	wallet WalletSource
	ttl    time.Duration
}

// NewJWTSessionCodec creates a new JWT session codec bound to a wallet
// source.
func NewJWTSessionCodec(wallet WalletSource) ports.SessionCodec {
	return &JWTSessionCodec{
		wallet: wallet,
		ttl:    DefaultSessionTTL,
	}
}

// SessionToToken converts a ConnectSession to a signed JWT.
func (c *JWTSessionCodec) SessionToToken(session *core.ConnectSession) (string, error) {
	wallet, ok := c.wallet()
	if !ok || wallet.SessionKey == nil {
		return "", core.ErrHostInactive
	}

	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(session.Origin),
			ID:        session.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
		DApp:   session.DApp,
		Wallet: wallet.Address.Hex(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(wallet.SessionKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// TokenToSession parses a session token back into a ConnectSession.
func (c *JWTSessionCodec) TokenToSession(tokenStr string) (*core.ConnectSession, error) {
	wallet, ok := c.wallet()
	if !ok || wallet.SessionKey == nil {
		return nil, core.ErrHostInactive
	}

	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &wallet.SessionKey.PublicKey, nil
	}, jwt.WithAudience(AudienceSession))

	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if !token.Valid {
		return nil, core.ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrInvalidSession
	}

	session := &core.ConnectSession{
		SessionID: claims.ID,
		DApp:      claims.DApp,
		Origin:    core.Origin(claims.Subject),
	}

	return session, nil
}
