package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/duel-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

func testMatch() tournament.Match {
	return tournament.Match{
		ID:            "1_2_1717264800",
		Player1ID:     1,
		Player2ID:     2,
		Player1Name:   "Alice",
		Player2Name:   "Bob",
		ScheduledTime: start,
		Status:        tournament.StatusScheduled,
	}
}

func TestNewIntent_AddressesOpponent(t *testing.T) {
	intent := NewIntent(KindReminder, 2, testMatch(), "play.example.org", start.Add(-5*time.Minute))

	assert.NotEmpty(t, intent.ID)
	assert.Equal(t, int64(2), intent.Recipient)
	assert.Equal(t, int64(1), intent.OpponentID)
	assert.Equal(t, "Alice", intent.OpponentName)
	assert.Equal(t, 5*time.Minute, intent.Until())

	other := NewIntent(KindReminder, 1, testMatch(), "", start)
	assert.NotEqual(t, intent.ID, other.ID)
	assert.Equal(t, "Bob", other.OpponentName)
}

func TestIntent_Text(t *testing.T) {
	m := testMatch()

	reminder := NewIntent(KindReminder, 1, m, "play.example.org:27015", start.Add(-5*time.Minute+10*time.Second))
	assert.Equal(t, "Your duel against Bob starts in 5 minutes (Sat 01 Jun 18:00 UTC). Server: play.example.org:27015", reminder.Text())

	startNow := NewIntent(KindImmediateStart, 2, m, "", start)
	assert.Equal(t, "Your duel against Alice is starting now!", startNow.Text())

	cancelled := NewIntent(KindCancellation, 1, m, "play.example.org:27015", start.Add(-time.Hour))
	assert.Equal(t, "Your duel against Bob scheduled for Sat 01 Jun 18:00 UTC has been cancelled.", cancelled.Text())
}

func TestLogNotifier_AlwaysDelivers(t *testing.T) {
	res, err := NewLogNotifier().Notify(context.Background(), NewIntent(KindReminder, 1, testMatch(), "", start))
	require.NoError(t, err)
	assert.Equal(t, Delivered, res)
	assert.Equal(t, "delivered", res.String())
	assert.Equal(t, "undeliverable", Undeliverable.String())
}
