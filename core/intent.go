package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// IntentAction names a privileged action a connected dApp wants performed.
type IntentAction string

const (
	ActionSend        IntentAction = "send"
	ActionSignMessage IntentAction = "sign_message"
	ActionSendDM      IntentAction = "send_dm"

	// ActionUnknown is the fallback for actions outside the enumerated
	// set. The host still routes it; interpretation belongs to the
	// approval surface, which may reject it.
	ActionUnknown IntentAction = "unknown"
)

// ParseIntentAction maps a wire action string onto the closed action set.
func ParseIntentAction(s string) IntentAction {
	switch IntentAction(s) {
	case ActionSend, ActionSignMessage, ActionSendDM:
		return IntentAction(s)
	}
	return ActionUnknown
}

// IntentParams carries the string-keyed arguments of an intent. The host
// never interprets them; the accessors exist for surfaces that render a
// pending intent to the user.
type IntentParams map[string]any

// String returns the string value under key, or "" when absent or not a
// string.
func (p IntentParams) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Decimal parses the value under key as an arbitrary-precision decimal.
// JSON numbers and numeric strings are both accepted.
func (p IntentParams) Decimal(key string) (decimal.Decimal, error) {
	switch v := p[key].(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case nil:
		return decimal.Zero, fmt.Errorf("param %q is missing", key)
	default:
		return decimal.Zero, fmt.Errorf("param %q is not numeric", key)
	}
}

// IntentOutcome is the verbatim resolution of an intent: either a result
// payload or an error, exactly as produced by the approval surface.
type IntentOutcome struct {
	Result any
	Err    error
}
