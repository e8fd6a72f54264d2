package relay

import (
	"encoding/json"
	"fmt"

	"github.com/layer-3/rangda/core"
)

// Kind discriminates the direction an envelope travels.
type Kind string

const (
	// KindToHost marks envelopes sent from the page context toward the host.
	KindToHost Kind = "to-host"

	// KindToClient marks envelopes sent from the host toward the page context.
	KindToClient Kind = "to-client"
)

// Method names the operation a to-host envelope requests.
type Method string

const (
	MethodConnect    Method = "connect"
	MethodIntent     Method = "intent"
	MethodDisconnect Method = "disconnect"
)

// Envelope is the single message shape exchanged across the page/host
// boundary. ID is the caller's correlation id and is echoed verbatim on
// the response; the relay itself does no request/response matching.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	ID      string          `json:"id"`
	Method  Method          `json:"method,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ParseToHostEnvelope decodes and validates an incoming envelope. The kind
// and method discriminators are closed sets; anything outside them is
// reported, never dispatched.
func ParseToHostEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	if env.Kind != KindToHost {
		return env, core.ErrUnknownEnvelope
	}

	switch env.Method {
	case MethodConnect, MethodIntent, MethodDisconnect:
		return env, nil
	}
	return env, core.ErrUnknownMethod
}

// ErrorResponse is the reply payload for envelopes that never reach a
// method handler, such as requests naming an unknown method.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConnectRequest asks the host for a connection decision.
type ConnectRequest struct {
	DApp                 core.DAppMetadata      `json:"dapp"`
	RequestedPermissions []core.PermissionScope `json:"requestedPermissions"`
	Silent               bool                   `json:"silent"`
}

// ConnectResponse carries the definite connection decision back to the
// page. SessionToken and Wallet are set only on approval.
type ConnectResponse struct {
	Approved           bool                   `json:"approved"`
	GrantedPermissions []core.PermissionScope `json:"grantedPermissions"`
	SessionToken       string                 `json:"sessionToken,omitempty"`
	Wallet             string                 `json:"wallet,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

// IntentRequest asks the host to broker a privileged action.
type IntentRequest struct {
	Action       string            `json:"action"`
	Params       core.IntentParams `json:"params"`
	SessionToken string            `json:"sessionToken"`
}

// IntentResponse carries the verbatim intent outcome back to the page.
type IntentResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DisconnectRequest revokes the presented session's grant.
type DisconnectRequest struct {
	SessionToken string `json:"sessionToken"`
}

// DisconnectResponse acknowledges a disconnect.
type DisconnectResponse struct {
	Disconnected bool   `json:"disconnected"`
	Error        string `json:"error,omitempty"`
}
