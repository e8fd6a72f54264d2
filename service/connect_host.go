package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const (
	// DefaultApprovalTTL bounds how long a connection approval may stay
	// pending before it resolves to a rejection.
	DefaultApprovalTTL = 120 * time.Second

	// DefaultIntentTTL bounds how long an intent may stay pending before
	// it resolves to a user-rejected error.
	DefaultIntentTTL = 300 * time.Second
)

// ConnectHost arbitrates connection requests, intents and disconnects from
// dApps against the origin approval store. It holds at most one pending
// approval and one pending intent system-wide, and its active lifetime is
// tied to the wallet's unlocked state: destroying the host force-resolves
// anything still pending.
type ConnectHost struct {
	store     ports.ApprovalStore
	escalator ports.Escalator
	events    ports.EventPublisher

	approvalTTL time.Duration
	intentTTL   time.Duration

	mu     sync.Mutex
	active bool
	wallet core.WalletHandle

	approvals pendingSlot[core.PendingApprovalInfo, core.ApprovalResolution]
	intents   pendingSlot[core.PendingIntentInfo, core.IntentOutcome]
}

// NewConnectHost creates a new connect host. The host starts Inactive;
// call Initialize with an unlocked wallet handle to activate it.
func NewConnectHost(store ports.ApprovalStore, escalator ports.Escalator, events ports.EventPublisher) *ConnectHost {
	return &ConnectHost{
		store:       store,
		escalator:   escalator,
		events:      events,
		approvalTTL: DefaultApprovalTTL,
		intentTTL:   DefaultIntentTTL,
	}
}

// Initialize binds the host to an unlocked wallet handle and activates it.
// An already-active host is torn down first. A handle without a session
// key counts as unavailable and leaves the host Inactive.
func (h *ConnectHost) Initialize(wallet core.WalletHandle) {
	h.Destroy()

	if wallet.SessionKey == nil {
		return
	}

	h.mu.Lock()
	h.wallet = wallet
	h.active = true
	h.mu.Unlock()
}

// Destroy deactivates the host. A pending approval resolves to a rejection
// and a pending intent to a user-rejected error before the slots clear.
// Safe to call when already Inactive.
func (h *ConnectHost) Destroy() {
	h.mu.Lock()
	h.active = false
	h.wallet = core.WalletHandle{}
	h.mu.Unlock()

	h.approvals.clear(core.ApprovalResolution{Approved: false, GrantedPermissions: []core.PermissionScope{}})
	h.intents.clear(core.IntentOutcome{Err: core.ErrUserRejected})
}

// Active reports whether the host is bound to an unlocked wallet.
func (h *ConnectHost) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Wallet returns the bound wallet handle while the host is Active.
func (h *ConnectHost) Wallet() (core.WalletHandle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wallet, h.active
}

func (h *ConnectHost) reportStoreFailure(ctx context.Context, op string, origin core.Origin, cause error) {
	if h.events != nil {
		_ = h.events.PublishStoreFailure(ctx, op, origin, cause)
	}
}

// OnConnectionRequest decides whether a dApp's connection request is
// approved. Previously approved origins resolve immediately without a
// prompt; silent requests from unknown origins fail fast; everything else
// escalates to the approval surface and waits for an explicit resolution
// or the timeout. An approved resolution is persisted (with identity-read
// added) before the decision returns; persistence failure is reported on
// the event channel but never retracts the decision.
func (h *ConnectHost) OnConnectionRequest(ctx context.Context, dapp core.DAppMetadata, requested []core.PermissionScope, silent bool) (core.ConnectDecision, error) {
	if !h.Active() {
		return core.ConnectDecision{}, core.ErrHostInactive
	}

	origin, hasOrigin := dapp.Origin()

	if hasOrigin {
		entry, err := h.store.Get(ctx, origin)
		if err != nil {
			// Treat an unreadable store as "not previously approved"
			// and let the normal flow decide.
			h.reportStoreFailure(ctx, "get", origin, err)
		}
		if entry != nil {
			if err := h.store.Touch(ctx, origin); err != nil {
				h.reportStoreFailure(ctx, "touch", origin, err)
			}
			return core.ConnectDecision{Approved: true, GrantedPermissions: entry.Permissions}, nil
		}
	}

	if silent {
		return core.ConnectDecision{Approved: false, GrantedPermissions: []core.PermissionScope{}}, nil
	}

	info := core.PendingApprovalInfo{
		ID:                   uuid.New().String(),
		DApp:                 dapp,
		RequestedPermissions: requested,
	}

	rejected := core.ApprovalResolution{Approved: false, GrantedPermissions: []core.PermissionScope{}}
	done, err := h.approvals.open(info.ID, info, h.approvalTTL, rejected, core.ErrApprovalPending)
	if err != nil {
		return core.ConnectDecision{Approved: false, GrantedPermissions: []core.PermissionScope{}}, err
	}

	if !h.Active() {
		// Destroy ran between the activity check and the slot open
		// (the store read suspends in between). Force-resolve so no
		// pending item outlives the teardown; if Destroy already
		// cleared the slot this is a no-op.
		h.approvals.resolve(info.ID, rejected)
	} else if h.escalator != nil {
		// Best effort; the timer is the fallback when the surface
		// never appears.
		_ = h.escalator.RequestApprovalAttention(ctx, info.ID)
	}

	res := <-done

	if !res.Approved {
		return core.ConnectDecision{Approved: false, GrantedPermissions: []core.PermissionScope{}}, nil
	}

	granted := core.NormalizePermissions(res.GrantedPermissions)

	if hasOrigin {
		if err := h.store.Upsert(ctx, origin, dapp, granted); err != nil {
			h.reportStoreFailure(ctx, "upsert", origin, err)
		} else if h.events != nil {
			if entry, err := h.store.Get(ctx, origin); err == nil && entry != nil {
				_ = h.events.PublishGrantUpserted(ctx, origin, *entry)
			}
		}
	}

	return core.ConnectDecision{Approved: true, GrantedPermissions: granted}, nil
}

// OnDisconnect revokes the grant for the session's origin. Disconnecting a
// session whose origin is unknown or already revoked is a no-op.
func (h *ConnectHost) OnDisconnect(ctx context.Context, session core.ConnectSession) error {
	if !h.Active() {
		return core.ErrHostInactive
	}

	origin, ok := session.DApp.Origin()
	if !ok {
		return nil
	}

	if err := h.store.Revoke(ctx, origin); err != nil {
		h.reportStoreFailure(ctx, "revoke", origin, err)
		return err
	}

	if h.events != nil {
		_ = h.events.PublishGrantRevoked(ctx, origin)
	}

	return nil
}

// OnIntent routes a privileged action request to the approval surface and
// waits for its verbatim outcome. The host never interprets the action or
// its params.
func (h *ConnectHost) OnIntent(ctx context.Context, action core.IntentAction, params core.IntentParams, session core.ConnectSession) (core.IntentOutcome, error) {
	if !h.Active() {
		return core.IntentOutcome{}, core.ErrHostInactive
	}

	info := core.PendingIntentInfo{
		ID:      uuid.New().String(),
		Action:  action,
		Params:  params,
		Session: session,
	}

	timedOut := core.IntentOutcome{Err: core.ErrUserRejected}
	done, err := h.intents.open(info.ID, info, h.intentTTL, timedOut, core.ErrIntentPending)
	if err != nil {
		return core.IntentOutcome{}, err
	}

	if !h.Active() {
		// Same teardown race as in OnConnectionRequest: never leave
		// a pending intent behind on an Inactive host.
		h.intents.resolve(info.ID, timedOut)
	} else if h.escalator != nil {
		_ = h.escalator.RequestIntentAttention(ctx, info.ID)
	}

	return <-done, nil
}

// PeekApproval returns the public view of the current pending approval.
func (h *ConnectHost) PeekApproval() (core.PendingApprovalInfo, bool) {
	return h.approvals.peek()
}

// ResolveApproval resolves the pending approval identified by id. Returns
// false when id no longer matches the slot (already resolved by timeout or
// a prior call).
func (h *ConnectHost) ResolveApproval(id string, approved bool, granted []core.PermissionScope) bool {
	return h.approvals.resolve(id, core.ApprovalResolution{
		Approved:           approved,
		GrantedPermissions: granted,
	})
}

// PeekIntent returns the public view of the current pending intent.
func (h *ConnectHost) PeekIntent() (core.PendingIntentInfo, bool) {
	return h.intents.peek()
}

// ResolveIntent resolves the pending intent identified by id with a
// verbatim outcome. Returns false when id no longer matches the slot.
func (h *ConnectHost) ResolveIntent(id string, outcome core.IntentOutcome) bool {
	return h.intents.resolve(id, outcome)
}
