package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/mauv0809/duel-keeper/internal/tournament"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
	calls                  []string
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.calls = append(m.calls, channelID)
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "D12345", "123456789.12345", nil
}

var users = map[int64]string{1: "U01", 2: "U02"}

func testIntent(kind notifier.Kind, recipient int64) notifier.Intent {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	match := tournament.Match{
		ID:            "1_2_1717264800",
		Player1ID:     1,
		Player2ID:     2,
		Player1Name:   "Alice",
		Player2Name:   "Bob",
		ScheduledTime: start,
		Status:        tournament.StatusScheduled,
	}
	return notifier.NewIntent(kind, recipient, match, "play.example.org:27015", start.Add(-5*time.Minute))
}

func TestNotify_SendsDirectMessage(t *testing.T) {
	api := &mockSlackAPI{}
	n := NewNotifierWithAPI(api, users)

	res, err := n.Notify(context.Background(), testIntent(notifier.KindReminder, 2))

	require.NoError(t, err)
	assert.Equal(t, notifier.Delivered, res)
	assert.Equal(t, []string{"U02"}, api.calls, "the DM goes to the recipient's Slack id")
}

func TestNotify_UnmappedRecipient(t *testing.T) {
	api := &mockSlackAPI{}
	n := NewNotifierWithAPI(api, users)

	res, err := n.Notify(context.Background(), testIntent(notifier.KindReminder, 3))

	require.NoError(t, err)
	assert.Equal(t, notifier.Undeliverable, res)
	assert.Empty(t, api.calls, "PostMessageContext should not have been called")
}

func TestNotify_DirectMessagesDisabled(t *testing.T) {
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", slackapi.SlackErrorResponse{Err: "cannot_dm_bot"}
		},
	}
	n := NewNotifierWithAPI(api, users)

	res, err := n.Notify(context.Background(), testIntent(notifier.KindReminder, 1))

	require.NoError(t, err)
	assert.Equal(t, notifier.Undeliverable, res)
}

func TestNotify_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}
	n := NewNotifierWithAPI(api, users)

	res, err := n.Notify(context.Background(), testIntent(notifier.KindCancellation, 1))

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, notifier.Undeliverable, res)
}

func TestFormatIntent(t *testing.T) {
	testCases := []struct {
		kind       notifier.Kind
		header     string
		wantFields int
	}{
		{notifier.KindReminder, "⚔️ Duel reminder", 3},
		{notifier.KindImmediateStart, "🔔 Your duel is starting!", 3},
		{notifier.KindCancellation, "❌ Duel cancelled", 2},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			msg := formatIntent(testIntent(tc.kind, 1))
			require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

			header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
			require.True(t, ok, "Block 0 should be a HeaderBlock")
			assert.Equal(t, tc.header, header.Text.Text)

			details, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
			require.True(t, ok, "Block 2 should be a SectionBlock")
			assert.Len(t, details.Fields, tc.wantFields)
			assert.Contains(t, details.Fields[0].Text, "Bob")

			_, ok = msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
			assert.True(t, ok, "Block 3 should be a ContextBlock")
		})
	}
}
