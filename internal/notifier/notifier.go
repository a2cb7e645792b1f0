package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/duel-keeper/internal/tournament"
)

// Kind identifies why a participant is being notified.
type Kind string

const (
	KindReminder       Kind = "reminder"
	KindCancellation   Kind = "cancellation"
	KindImmediateStart Kind = "immediate_start"
)

// Result reports whether a notification reached its recipient.
type Result int

const (
	Delivered Result = iota
	Undeliverable
)

func (r Result) String() string {
	if r == Delivered {
		return "delivered"
	}
	return "undeliverable"
}

// Intent is a single notification addressed to one match participant.
type Intent struct {
	ID           string           `json:"id" msgpack:"id"`
	Recipient    int64            `json:"recipient" msgpack:"recipient"`
	Kind         Kind             `json:"kind" msgpack:"kind"`
	Match        tournament.Match `json:"match" msgpack:"match"`
	OpponentID   int64            `json:"opponent_id" msgpack:"opponent_id"`
	OpponentName string           `json:"opponent_name" msgpack:"opponent_name"`
	// Server is the game server address players should connect to, if known.
	Server    string    `json:"server,omitempty" msgpack:"server,omitempty"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// NewIntent addresses a notification about match to recipient.
func NewIntent(kind Kind, recipient int64, match tournament.Match, server string, now time.Time) Intent {
	opponentID, opponentName := match.Opponent(recipient)
	return Intent{
		ID:           uuid.NewString(),
		Recipient:    recipient,
		Kind:         kind,
		Match:        match,
		OpponentID:   opponentID,
		OpponentName: opponentName,
		Server:       server,
		CreatedAt:    now,
	}
}

// Until returns how long before the match starts the intent was created.
func (i Intent) Until() time.Duration {
	return i.Match.ScheduledTime.Sub(i.CreatedAt)
}

// Text renders the intent as a short human readable message.
func (i Intent) Text() string {
	when := i.Match.ScheduledTime.UTC().Format("Mon 02 Jan 15:04 MST")
	var text string
	switch i.Kind {
	case KindReminder:
		text = fmt.Sprintf("Your duel against %s starts in %d minutes (%s).", i.OpponentName, int(i.Until().Round(time.Minute).Minutes()), when)
	case KindImmediateStart:
		text = fmt.Sprintf("Your duel against %s is starting now!", i.OpponentName)
	case KindCancellation:
		text = fmt.Sprintf("Your duel against %s scheduled for %s has been cancelled.", i.OpponentName, when)
	default:
		text = fmt.Sprintf("Update about your duel against %s.", i.OpponentName)
	}
	if i.Server != "" && i.Kind != KindCancellation {
		text += fmt.Sprintf(" Server: %s", i.Server)
	}
	return text
}

// Notifier delivers notification intents to participants. Undeliverable
// with a nil error means the recipient cannot be reached, e.g. direct
// messages are disabled. A non-nil error reports a transport failure.
type Notifier interface {
	Notify(ctx context.Context, intent Intent) (Result, error)
}
