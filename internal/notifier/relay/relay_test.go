package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/pubsub"
	"github.com/mauv0809/duel-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testIntent() notifier.Intent {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	match := tournament.Match{ID: "1_2_1717264800", Player1ID: 1, Player2ID: 2, Player1Name: "Alice", Player2Name: "Bob", ScheduledTime: start}
	return notifier.NewIntent(notifier.KindReminder, 1, match, "", start.Add(-5*time.Minute))
}

func TestNotify_PublishesIntent(t *testing.T) {
	client := pubsub.NewMock()
	intent := testIntent()

	res, err := New(client).Notify(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, notifier.Delivered, res)

	calls := client.GetSendMessageCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventNotification, calls[0].Topic)
	assert.Equal(t, intent, calls[0].Data)
}

func TestNotify_PayloadDecodes(t *testing.T) {
	client := pubsub.NewMock()
	intent := testIntent()

	var payload []byte
	client.SendMessageFunc = func(ctx context.Context, topic pubsub.EventType, data any) error {
		var err error
		payload, err = msgpack.Marshal(data)
		return err
	}
	_, err := New(client).Notify(context.Background(), intent)
	require.NoError(t, err)

	var decoded notifier.Intent
	require.NoError(t, client.ProcessMessage(payload, &decoded))
	assert.Equal(t, intent.ID, decoded.ID)
	assert.Equal(t, intent.Kind, decoded.Kind)
	assert.Equal(t, "Bob", decoded.OpponentName)
	assert.True(t, intent.Match.ScheduledTime.Equal(decoded.Match.ScheduledTime))
}

func TestNotify_PublishFailure(t *testing.T) {
	client := pubsub.NewMock()
	brokerErr := errors.New("broker unavailable")
	client.SendMessageFunc = func(ctx context.Context, topic pubsub.EventType, data any) error {
		return brokerErr
	}

	res, err := New(client).Notify(context.Background(), testIntent())
	assert.ErrorIs(t, err, brokerErr)
	assert.Equal(t, notifier.Undeliverable, res)
}
