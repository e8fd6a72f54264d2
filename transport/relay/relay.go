package relay

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
)

const (
	// ToHostTopic carries envelopes from page contexts toward the host.
	ToHostTopic = "rangda.to_host"

	// ToClientTopic carries envelopes from the host toward page contexts.
	ToClientTopic = "rangda.to_client"
)

// Relay ferries envelopes between the message transport and the connect
// host. Delivery in both directions is at-most-once and best-effort: every
// incoming message is acked immediately, envelopes that arrive while the
// host is Inactive are dropped silently, and reply publication failures
// are logged, never retried.
type Relay struct {
	host       *service.ConnectHost
	codec      ports.SessionCodec
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     watermill.LoggerAdapter
}

// NewRelay creates a new relay bound to host.
func NewRelay(host *service.ConnectHost, codec ports.SessionCodec, subscriber message.Subscriber, publisher message.Publisher, logger watermill.LoggerAdapter) *Relay {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Relay{
		host:       host,
		codec:      codec,
		subscriber: subscriber,
		publisher:  publisher,
		logger:     logger,
	}
}

// Run consumes to-host envelopes until ctx is cancelled or the
// subscription closes.
func (r *Relay) Run(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, ToHostTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		// At-most-once: ack before handling so nothing is redelivered.
		msg.Ack()
		go r.Dispatch(ctx, msg.Payload)
	}

	return nil
}

// Dispatch handles one raw to-host envelope.
func (r *Relay) Dispatch(ctx context.Context, raw []byte) {
	env, err := ParseToHostEnvelope(raw)
	if err != nil {
		if errors.Is(err, core.ErrUnknownMethod) && env.ID != "" {
			r.reply(env, ErrorResponse{Error: core.ErrUnknownMethod.Error()})
			return
		}
		r.logger.Debug("dropping envelope", watermill.LogFields{"err": err.Error()})
		return
	}

	if !r.host.Active() {
		// Host not ready: drop silently, no retry.
		r.logger.Debug("host inactive, dropping envelope", watermill.LogFields{"method": string(env.Method)})
		return
	}

	switch env.Method {
	case MethodConnect:
		r.handleConnect(ctx, env)
	case MethodIntent:
		r.handleIntent(ctx, env)
	case MethodDisconnect:
		r.handleDisconnect(ctx, env)
	}
}

func (r *Relay) handleConnect(ctx context.Context, env Envelope) {
	var req ConnectRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		r.reply(env, ConnectResponse{Error: "invalid connect payload"})
		return
	}

	decision, err := r.host.OnConnectionRequest(ctx, req.DApp, req.RequestedPermissions, req.Silent)
	if err != nil {
		r.reply(env, ConnectResponse{GrantedPermissions: []core.PermissionScope{}, Error: err.Error()})
		return
	}

	resp := ConnectResponse{
		Approved:           decision.Approved,
		GrantedPermissions: decision.GrantedPermissions,
	}

	if decision.Approved {
		origin, _ := req.DApp.Origin()
		session := &core.ConnectSession{
			SessionID: uuid.New().String(),
			DApp:      req.DApp,
			Origin:    origin,
		}
		token, err := r.codec.SessionToToken(session)
		if err != nil {
			// The decision stands; the dApp just has to reconnect
			// to obtain a session.
			r.logger.Error("failed to issue session token", err, nil)
		} else {
			resp.SessionToken = token
		}
		if wallet, ok := r.host.Wallet(); ok {
			resp.Wallet = wallet.Address.Hex()
		}
	}

	r.reply(env, resp)
}

func (r *Relay) handleIntent(ctx context.Context, env Envelope) {
	var req IntentRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		r.reply(env, IntentResponse{Error: "invalid intent payload"})
		return
	}

	session, err := r.codec.TokenToSession(req.SessionToken)
	if err != nil {
		r.reply(env, IntentResponse{Error: core.ErrInvalidSession.Error()})
		return
	}

	outcome, err := r.host.OnIntent(ctx, core.ParseIntentAction(req.Action), req.Params, *session)
	if err != nil {
		r.reply(env, IntentResponse{Error: err.Error()})
		return
	}

	if outcome.Err != nil {
		r.reply(env, IntentResponse{Error: outcome.Err.Error()})
		return
	}
	r.reply(env, IntentResponse{Result: outcome.Result})
}

func (r *Relay) handleDisconnect(ctx context.Context, env Envelope) {
	var req DisconnectRequest
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		r.reply(env, DisconnectResponse{Error: "invalid disconnect payload"})
		return
	}

	session, err := r.codec.TokenToSession(req.SessionToken)
	if err != nil {
		r.reply(env, DisconnectResponse{Error: core.ErrInvalidSession.Error()})
		return
	}

	if err := r.host.OnDisconnect(ctx, *session); err != nil {
		r.reply(env, DisconnectResponse{Error: err.Error()})
		return
	}
	r.reply(env, DisconnectResponse{Disconnected: true})
}

func (r *Relay) reply(env Envelope, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal reply payload", err, nil)
		return
	}

	out := Envelope{
		Kind:    KindToClient,
		ID:      env.ID,
		Method:  env.Method,
		Payload: raw,
	}
	outRaw, err := json.Marshal(out)
	if err != nil {
		r.logger.Error("failed to marshal reply envelope", err, nil)
		return
	}

	msg := message.NewMessage(uuid.New().String(), outRaw)
	if err := r.publisher.Publish(ToClientTopic, msg); err != nil {
		// Best effort; the page's own protocol layer handles the gap.
		r.logger.Error("failed to publish reply envelope", err, nil)
	}
}
