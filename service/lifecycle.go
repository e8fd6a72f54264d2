package service

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/layer-3/rangda/ports"
)

// WalletLifecycle ties the connect host's active lifetime to the wallet's
// lock state. It owns the host: unlock activates it with the current
// wallet handle, lock tears it down.
type WalletLifecycle struct {
	provider ports.WalletProvider
	host     *ConnectHost
	logger   watermill.LoggerAdapter
}

// NewWalletLifecycle creates a new lifecycle controller around host.
func NewWalletLifecycle(provider ports.WalletProvider, host *ConnectHost, logger watermill.LoggerAdapter) *WalletLifecycle {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &WalletLifecycle{
		provider: provider,
		host:     host,
		logger:   logger,
	}
}

// Host returns the owned connect host.
func (l *WalletLifecycle) Host() *ConnectHost {
	return l.host
}

// HandleUnlock activates the host with the current wallet handle. When no
// handle is available the host stays Inactive and HandleUnlock reports
// false.
func (l *WalletLifecycle) HandleUnlock() bool {
	handle, ok := l.provider.ActiveWalletHandle()
	if !ok {
		l.logger.Info("no active wallet handle, connect host stays inactive", nil)
		return false
	}

	l.host.Initialize(handle)
	l.logger.Info("connect host initialized", watermill.LogFields{
		"wallet": handle.Address.Hex(),
	})
	return l.host.Active()
}

// HandleLock tears the host down, force-resolving anything still pending.
// Safe to call when the host is already Inactive.
func (l *WalletLifecycle) HandleLock() {
	l.host.Destroy()
	l.logger.Info("connect host destroyed", nil)
}
