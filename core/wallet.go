package core

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// WalletHandle is the host's binding to the currently unlocked wallet.
// SessionKey is a P-256 key used only to sign session tokens; the wallet's
// chain keys never pass through the connect layer.
type WalletHandle struct {
	Address    common.Address
	SessionKey *ecdsa.PrivateKey
}
