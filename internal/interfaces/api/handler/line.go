package handler

import (
	"errors"
	"fmt"
	"medreminder/internal/infrastructure/line"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const listCommand = "list"

// LineClient is the part of line.Client the webhook uses.
type LineClient interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
	SendMessages(replyToken string, messages ...linebot.SendingMessage) error
}

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient LineClient
	ctrl       ReminderController
	owner      string
	loc        *time.Location
	log        logger.Logger
}

// NewLineHandler creates a new LineHandler. Only messages from owner are
// acted upon.
func NewLineHandler(lineClient LineClient, ctrl ReminderController, owner string, loc *time.Location, log logger.Logger) *LineHandler {
	return &LineHandler{
		lineClient: lineClient,
		ctrl:       ctrl,
		owner:      owner,
		loc:        loc,
		log:        log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.log.Debug(fmt.Sprintf("Processing event type: %s", event.Type))
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}
		if event.Source == nil || event.Source.UserID != h.owner {
			h.log.Warn("Ignoring LINE message from unknown user")
			continue
		}
		h.handleText(event.ReplyToken, strings.TrimSpace(message.Text))
	}

	return c.String(http.StatusOK, "OK")
}

func (h *LineHandler) handleText(replyToken, text string) {
	fields := strings.Fields(strings.ToLower(text))
	switch {
	case len(fields) == 1 && fields[0] == listCommand:
		h.sendReminderList(replyToken)
	case len(fields) == 2 && fields[0] == line.TakenCommand:
		h.handleTaken(replyToken, fields[1])
	default:
		h.sendHowToUse(replyToken)
	}
}

func (h *LineHandler) sendHowToUse(replyToken string) {
	howToUse := `Send "list" to see your reminders.
Tap "Taken" on a daily reminder, or send "taken <id>", once you have taken it.`

	quickReply := linebot.NewQuickReplyItems(
		linebot.NewQuickReplyButton("", linebot.NewMessageAction("List", listCommand)),
	)
	message := linebot.NewTextMessage(howToUse).WithQuickReplies(quickReply)
	h.reply(replyToken, message)
}

func (h *LineHandler) sendReminderList(replyToken string) {
	reminders := h.ctrl.State().Data
	if len(reminders) == 0 {
		h.reply(replyToken, linebot.NewTextMessage("No reminders registered."))
		return
	}

	var builder strings.Builder
	for _, r := range reminders {
		status := r.Kind().String()
		if r.IsTaken {
			status = "Taken"
		}
		builder.WriteString(fmt.Sprintf("#%d %s (%s)\n%s, %s\n\n",
			r.ID, r.Name, r.Dosage, r.TriggerTime(h.loc).Format("2006/01/02 15:04"), status))
	}
	h.reply(replyToken, linebot.NewTextMessage(strings.TrimSuffix(builder.String(), "\n\n")))
}

func (h *LineHandler) handleTaken(replyToken, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		h.reply(replyToken, linebot.NewTextMessage(fmt.Sprintf("%q is not a reminder number.", rawID)))
		return
	}
	reminder, ok := h.ctrl.Find(uint(id))
	if !ok {
		h.reply(replyToken, linebot.NewTextMessage(fmt.Sprintf("Reminder #%d was not found.", id)))
		return
	}
	if err := h.ctrl.Acknowledge(reminder); err != nil {
		if errors.Is(err, appErrors.ErrNotRecurring) {
			h.reply(replyToken, linebot.NewTextMessage("Only daily reminders can be marked as taken."))
			return
		}
		h.log.Error(fmt.Sprintf("Failed to acknowledge reminder %d", id), err)
		h.reply(replyToken, linebot.NewTextMessage("Something went wrong, please try again."))
		return
	}
	h.reply(replyToken, linebot.NewTextMessage(fmt.Sprintf("Marked %s as taken.", reminder.Name)))
}

func (h *LineHandler) reply(replyToken string, messages ...linebot.SendingMessage) {
	if err := h.lineClient.SendMessages(replyToken, messages...); err != nil {
		h.log.Error("Failed to send LINE reply message", err)
	}
}
