package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/rangda/ports"
)

// AttentionTopic carries requests to bring the approval or intent surface
// to the user's attention.
const AttentionTopic = "rangda.attention"

// AttentionEvent asks the approval surface to present itself.
type AttentionEvent struct {
	Kind string `json:"kind"` // "approval" or "intent"
	ID   string `json:"id"`
}

// WatermillEscalator implements the Escalator interface using Watermill.
// Delivery is best-effort; the pending item's timeout is the fallback when
// the surface never appears.
type WatermillEscalator struct {
	publisher message.Publisher
}

// NewWatermillEscalator creates a new Watermill escalator.
func NewWatermillEscalator(publisher message.Publisher) ports.Escalator {
	return &WatermillEscalator{publisher: publisher}
}

func (e *WatermillEscalator) request(kind, id string) error {
	payload, err := json.Marshal(AttentionEvent{Kind: kind, ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal attention event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := e.publisher.Publish(AttentionTopic, msg); err != nil {
		return fmt.Errorf("failed to publish attention event: %w", err)
	}

	return nil
}

// RequestApprovalAttention asks the surface to present the pending approval.
func (e *WatermillEscalator) RequestApprovalAttention(ctx context.Context, approvalID string) error {
	return e.request("approval", approvalID)
}

// RequestIntentAttention asks the surface to present the pending intent.
func (e *WatermillEscalator) RequestIntentAttention(ctx context.Context, intentID string) error {
	return e.request("intent", intentID)
}
