package notifier

import (
	"context"

	"github.com/charmbracelet/log"
)

var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes intents to the log and reports them delivered.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, intent Intent) (Result, error) {
	log.Info("Notification", "id", intent.ID, "kind", intent.Kind, "recipient", intent.Recipient, "matchID", intent.Match.ID, "text", intent.Text())
	return Delivered, nil
}
