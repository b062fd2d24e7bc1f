package handler

import (
	"encoding/json"
	"errors"
	"medreminder/internal/domain/entity"
	"medreminder/internal/interfaces/viewstate"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "Uowner"

type fakeLineClient struct {
	events   []*linebot.Event
	parseErr error
	replies  map[string][]string
}

func (f *fakeLineClient) ParseRequest(*http.Request) ([]*linebot.Event, error) {
	return f.events, f.parseErr
}

func (f *fakeLineClient) SendMessages(replyToken string, messages ...linebot.SendingMessage) error {
	for _, m := range messages {
		raw, err := json.Marshal(m)
		if err != nil {
			return err
		}
		f.replies[replyToken] = append(f.replies[replyToken], string(raw))
	}
	return nil
}

type stubController struct {
	reminders    []entity.Reminder
	acknowledged []uint
}

func (s *stubController) State() viewstate.UIState { return viewstate.UIState{Data: s.reminders} }

func (s *stubController) Find(id uint) (entity.Reminder, bool) {
	for _, r := range s.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return entity.Reminder{}, false
}

func (s *stubController) Insert(entity.Reminder) {}
func (s *stubController) Update(entity.Reminder) {}
func (s *stubController) Delete(entity.Reminder) {}

func (s *stubController) Acknowledge(r entity.Reminder) error {
	if !r.IsRepeat {
		return appErrors.ErrNotRecurring
	}
	s.acknowledged = append(s.acknowledged, r.ID)
	return nil
}

func textEvent(token, from, text string) *linebot.Event {
	return &linebot.Event{
		Type:       linebot.EventTypeMessage,
		ReplyToken: token,
		Source:     &linebot.EventSource{Type: linebot.EventSourceTypeUser, UserID: from},
		Message:    &linebot.TextMessage{Text: text},
	}
}

func serveWebhook(t *testing.T, client *fakeLineClient, ctrl *stubController) int {
	t.Helper()
	h := NewLineHandler(client, ctrl, owner, time.UTC, logger.NewNop())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	return rec.Code
}

func TestLineHandler_Commands(t *testing.T) {
	ctrl := &stubController{reminders: []entity.Reminder{
		{ID: 1, Name: "Vitamin D", Dosage: "5ml", TimeInMillis: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC).UnixMilli(), IsRepeat: true},
		{ID: 2, Name: "Amoxicillin", Dosage: "1 pill", TimeInMillis: time.Date(2026, 1, 1, 20, 30, 0, 0, time.UTC).UnixMilli()},
	}}
	client := &fakeLineClient{
		replies: map[string][]string{},
		events: []*linebot.Event{
			textEvent("t-list", owner, "List"),
			textEvent("t-taken", owner, "taken 1"),
			textEvent("t-oneshot", owner, "taken 2"),
			textEvent("t-missing", owner, "taken 7"),
			textEvent("t-bad", owner, "taken seven"),
			textEvent("t-help", owner, "hello"),
			textEvent("t-stranger", "Ustranger", "taken 1"),
		},
	}

	assert.Equal(t, http.StatusOK, serveWebhook(t, client, ctrl))

	require.Len(t, client.replies["t-list"], 1)
	assert.Contains(t, client.replies["t-list"][0], "#1 Vitamin D (5ml)")
	assert.Contains(t, client.replies["t-list"][0], "2026/01/01 20:30, One-time Reminder")

	assert.Contains(t, client.replies["t-taken"][0], "Marked Vitamin D as taken.")
	assert.Contains(t, client.replies["t-oneshot"][0], "Only daily reminders")
	assert.Contains(t, client.replies["t-missing"][0], "#7 was not found")
	assert.Contains(t, client.replies["t-bad"][0], "is not a reminder number")
	assert.Contains(t, client.replies["t-help"][0], "quickReply")
	assert.Empty(t, client.replies["t-stranger"])

	assert.Equal(t, []uint{1}, ctrl.acknowledged)
}

func TestLineHandler_EmptyList(t *testing.T) {
	client := &fakeLineClient{replies: map[string][]string{}, events: []*linebot.Event{textEvent("t", owner, "list")}}
	serveWebhook(t, client, &stubController{})
	assert.Contains(t, client.replies["t"][0], "No reminders registered.")
}

func TestLineHandler_InvalidSignature(t *testing.T) {
	client := &fakeLineClient{replies: map[string][]string{}, parseErr: linebot.ErrInvalidSignature}
	assert.Equal(t, http.StatusBadRequest, serveWebhook(t, client, &stubController{}))

	client = &fakeLineClient{replies: map[string][]string{}, parseErr: errors.New("boom")}
	assert.Equal(t, http.StatusInternalServerError, serveWebhook(t, client, &stubController{}))
}
