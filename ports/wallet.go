package ports

import "github.com/layer-3/rangda/core"

// WalletProvider exposes the currently unlocked wallet, if any.
type WalletProvider interface {
	// ActiveWalletHandle returns the active handle, or false when the
	// wallet is locked or absent.
	ActiveWalletHandle() (core.WalletHandle, bool)
}
