package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const (
	// GrantUpsertedTopic carries grant creation and replacement events.
	GrantUpsertedTopic = "rangda.grant.upserted"

	// GrantRevokedTopic carries grant removal events.
	GrantRevokedTopic = "rangda.grant.revoked"

	// StoreFailureTopic carries persistence failures whose in-memory
	// decision was already returned to the caller.
	StoreFailureTopic = "rangda.store.failure"
)

// GrantUpsertedEvent represents a created or replaced grant.
type GrantUpsertedEvent struct {
	Origin      string                 `json:"origin"`
	Permissions []core.PermissionScope `json:"permissions"`
	DApp        core.DAppMetadata      `json:"dapp"`
	ConnectedAt time.Time              `json:"connectedAt"`
	LastSeenAt  time.Time              `json:"lastSeenAt"`
}

// GrantRevokedEvent represents a removed grant.
type GrantRevokedEvent struct {
	Origin string `json:"origin"`
}

// StoreFailureEvent represents a persistence failure; the grant it
// describes must be considered ephemeral.
type StoreFailureEvent struct {
	Op     string `json:"op"`
	Origin string `json:"origin"`
	Cause  string `json:"cause"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// PublishGrantUpserted publishes a grant-upserted event.
func (p *WatermillPublisher) PublishGrantUpserted(ctx context.Context, origin core.Origin, entry core.ApprovedOriginEntry) error {
	return p.publish(GrantUpsertedTopic, GrantUpsertedEvent{
		Origin:      string(origin),
		Permissions: entry.Permissions,
		DApp:        entry.DApp,
		ConnectedAt: entry.ConnectedAt,
		LastSeenAt:  entry.LastSeenAt,
	})
}

// PublishGrantRevoked publishes a grant-revoked event.
func (p *WatermillPublisher) PublishGrantRevoked(ctx context.Context, origin core.Origin) error {
	return p.publish(GrantRevokedTopic, GrantRevokedEvent{Origin: string(origin)})
}

// PublishStoreFailure publishes a store-failure event.
func (p *WatermillPublisher) PublishStoreFailure(ctx context.Context, op string, origin core.Origin, cause error) error {
	return p.publish(StoreFailureTopic, StoreFailureEvent{
		Op:     op,
		Origin: string(origin),
		Cause:  cause.Error(),
	})
}
