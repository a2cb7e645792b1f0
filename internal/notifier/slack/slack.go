package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Slack API errors meaning the recipient cannot receive a direct message.
var unreachable = map[string]bool{
	"channel_not_found":     true,
	"user_not_found":        true,
	"user_disabled":         true,
	"cannot_dm_bot":         true,
	"not_in_channel":        true,
	"is_archived":           true,
	"restricted_action":     true,
	"messages_tab_disabled": true,
}

// Notifier delivers notification intents as Slack direct messages.
type Notifier struct {
	api     slackClient
	users   map[int64]string
	timeout time.Duration
}

// NewNotifier creates a new Notifier. users maps player ids to Slack member ids.
func NewNotifier(token string, users map[int64]string) *Notifier {
	return NewNotifierWithAPI(slack.New(token), users)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, users map[int64]string) *Notifier {
	return &Notifier{
		api:     api,
		users:   users,
		timeout: 10 * time.Second,
	}
}

func (s *Notifier) Notify(ctx context.Context, intent notifier.Intent) (notifier.Result, error) {
	userID, ok := s.users[intent.Recipient]
	if !ok {
		log.Warn("No Slack user mapped for player", "playerID", intent.Recipient, "kind", intent.Kind)
		return notifier.Undeliverable, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	message := formatIntent(intent)
	// Posting to a user id opens a direct message with them.
	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		userID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(intent.Text(), false),
	)
	if err != nil {
		var apiErr slack.SlackErrorResponse
		if errors.As(err, &apiErr) && unreachable[apiErr.Err] {
			log.Warn("Slack user cannot receive direct messages", "user", userID, "reason", apiErr.Err)
			return notifier.Undeliverable, nil
		}
		log.Error("Failed to send Slack DM", "error", err, "user", userID, "kind", intent.Kind)
		return notifier.Undeliverable, fmt.Errorf("failed to send DM: %w", err)
	}

	log.Info("Successfully sent Slack DM", "user", userID, "channel", channelID, "timestamp", timestamp, "kind", intent.Kind)
	return notifier.Delivered, nil
}

// formatIntent creates the Block Kit message for a notification intent.
func formatIntent(intent notifier.Intent) slack.Message {
	blocks := make([]slack.Block, 0)

	var header string
	switch intent.Kind {
	case notifier.KindReminder:
		header = "⚔️ Duel reminder"
	case notifier.KindImmediateStart:
		header = "🔔 Your duel is starting!"
	case notifier.KindCancellation:
		header = "❌ Duel cancelled"
	default:
		header = "Duel update"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", intent.Text(), false, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Opponent:*\n%s", intent.OpponentName), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Time:*\n<!date^%d^{date_short_pretty} {time}|%s>", intent.Match.ScheduledTime.Unix(), intent.Match.ScheduledTime.UTC().Format(time.RFC1123)), false, false),
	}
	if intent.Server != "" && intent.Kind != notifier.KindCancellation {
		fields = append(fields, slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Server:*\n`%s`", intent.Server), false, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match %s", intent.Match.ID), false, false),
	))

	return slack.NewBlockMessage(blocks...)
}
