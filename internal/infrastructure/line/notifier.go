package line

import (
	"context"
	"fmt"
	"medreminder/internal/application/service"
	"medreminder/internal/domain/entity"
	appErrors "medreminder/internal/pkg/errors"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// TakenCommand is the chat text that acknowledges a recurring reminder.
const TakenCommand = "taken"

// pusher is the subset of Client the notifier needs.
type pusher interface {
	PushMessages(to string, messages ...linebot.SendingMessage) error
}

// Notifier pushes fired alarms to a single LINE user.
type Notifier struct {
	client pusher
	to     string
}

// NewNotifier creates a Notifier that pushes to the LINE user ID to.
func NewNotifier(client *Client, to string) *Notifier {
	return &Notifier{client: client, to: to}
}

// Notify implements service.Notifier.
func (n *Notifier) Notify(_ context.Context, reminder entity.Reminder) error {
	if err := n.client.PushMessages(n.to, AlarmMessage(reminder)); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrLineAPI, err)
	}
	return nil
}

// AlarmMessage builds the push message for a fired reminder. Recurring
// reminders carry a quick reply that marks them as taken.
func AlarmMessage(reminder entity.Reminder) linebot.SendingMessage {
	message := linebot.NewTextMessage(service.AlarmText(reminder))
	if !reminder.IsRepeat {
		return message
	}
	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction("Taken", fmt.Sprintf("%s %d", TakenCommand, reminder.ID))),
	)
	return message.WithQuickReplies(quickReply)
}
