// Package relay hands notification intents to an external delivery worker
// over Pub/Sub.
package relay

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/pubsub"
)

var _ notifier.Notifier = (*Notifier)(nil)

type Notifier struct {
	client pubsub.PubSubClient
	topic  pubsub.EventType
}

func New(client pubsub.PubSubClient) *Notifier {
	return &Notifier{client: client, topic: pubsub.EventNotification}
}

// Notify publishes the intent. Delivered means the broker accepted it; the
// worker on the other side owns the final delivery.
func (n *Notifier) Notify(ctx context.Context, intent notifier.Intent) (notifier.Result, error) {
	if err := n.client.SendMessage(ctx, n.topic, intent); err != nil {
		log.Error("Failed to relay notification", "error", err, "id", intent.ID, "kind", intent.Kind)
		return notifier.Undeliverable, fmt.Errorf("failed to publish notification %s: %w", intent.ID, err)
	}
	log.Debug("Relayed notification", "id", intent.ID, "kind", intent.Kind, "recipient", intent.Recipient)
	return notifier.Delivered, nil
}
