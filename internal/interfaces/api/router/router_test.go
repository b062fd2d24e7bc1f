package router

import (
	"encoding/json"
	"medreminder/internal/application/dto"
	"medreminder/internal/domain/entity"
	"medreminder/internal/interfaces/api/handler"
	"medreminder/internal/interfaces/viewstate"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockController struct {
	mock.Mock
}

func (m *mockController) State() viewstate.UIState {
	return m.Called().Get(0).(viewstate.UIState)
}

func (m *mockController) Find(id uint) (entity.Reminder, bool) {
	args := m.Called(id)
	return args.Get(0).(entity.Reminder), args.Bool(1)
}

func (m *mockController) Insert(r entity.Reminder) { m.Called(r) }
func (m *mockController) Update(r entity.Reminder) { m.Called(r) }
func (m *mockController) Delete(r entity.Reminder) { m.Called(r) }

func (m *mockController) Acknowledge(r entity.Reminder) error {
	return m.Called(r).Error(0)
}

var (
	daily   = entity.Reminder{ID: 1, Name: "Vitamin D", Dosage: "5ml", TimeInMillis: 1_700_000_000_000, IsRepeat: true}
	oneShot = entity.Reminder{ID: 2, Name: "Amoxicillin", Dosage: "1 pill", TimeInMillis: 1_700_000_060_000}
)

func newTestRouter(ctrl *mockController) http.Handler {
	return NewRouter(&Config{
		ReminderHandler: handler.NewReminderHandler(ctrl, time.UTC, logger.NewNop()),
		Logger:          logger.NewNop(),
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newTestRouter(new(mockController)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListReminders(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("State").Return(viewstate.UIState{Data: []entity.Reminder{daily, oneShot}})

	rec := do(newTestRouter(ctrl), http.MethodGet, "/reminders", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.ReminderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Repeating Daily", got[0].Kind)
	assert.Equal(t, "One-time Reminder", got[1].Kind)
	assert.Equal(t, oneShot.TimeInMillis, got[1].TimeInMillis)
	assert.True(t, got[1].RemindTime.Equal(time.UnixMilli(oneShot.TimeInMillis)))
}

func TestCreateReminder(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		ctrl := new(mockController)
		ctrl.On("Insert", entity.Reminder{Name: "Amoxicillin", Dosage: "1 pill", TimeInMillis: 1_700_000_000_000}).Once()

		rec := do(newTestRouter(ctrl), http.MethodPost, "/reminders",
			`{"name":"  Amoxicillin ","dosage":"1 pill","time_in_millis":1700000000000}`)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		ctrl.AssertExpectations(t)
	})

	rejected := map[string]string{
		"blank name":   `{"name":"   ","dosage":"1 pill","time_in_millis":1700000000000}`,
		"blank dosage": `{"name":"Amoxicillin","dosage":"","time_in_millis":1700000000000}`,
		"no time":      `{"name":"Amoxicillin","dosage":"1 pill"}`,
		"malformed":    `{"name":`,
	}
	for name, body := range rejected {
		t.Run(name, func(t *testing.T) {
			ctrl := new(mockController)
			rec := do(newTestRouter(ctrl), http.MethodPost, "/reminders", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			ctrl.AssertNotCalled(t, "Insert", mock.Anything)
		})
	}
}

func TestUpdateReminder(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("Find", uint(1)).Return(daily, true)
	ctrl.On("Find", uint(9)).Return(entity.Reminder{}, false)
	ctrl.On("Update", entity.Reminder{ID: 1, Name: "Vitamin D", Dosage: "10ml", TimeInMillis: 1_700_000_000_000, IsRepeat: true}).Once()
	h := newTestRouter(ctrl)

	rec := do(h, http.MethodPut, "/reminders/1", `{"name":"Vitamin D","dosage":"10ml","time_in_millis":1700000000000,"is_repeat":true}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(h, http.MethodPut, "/reminders/9", `{"name":"x","dosage":"y","time_in_millis":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPut, "/reminders/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctrl.AssertExpectations(t)
}

func TestDeleteReminder(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("Find", uint(2)).Return(oneShot, true)
	ctrl.On("Find", uint(9)).Return(entity.Reminder{}, false)
	ctrl.On("Delete", oneShot).Once()
	ctrl.On("Delete", entity.Reminder{ID: 9}).Once()
	h := newTestRouter(ctrl)

	assert.Equal(t, http.StatusAccepted, do(h, http.MethodDelete, "/reminders/2", "").Code)
	assert.Equal(t, http.StatusAccepted, do(h, http.MethodDelete, "/reminders/9", "").Code)
	ctrl.AssertExpectations(t)
}

func TestTakenReminder(t *testing.T) {
	ctrl := new(mockController)
	ctrl.On("Find", uint(1)).Return(daily, true)
	ctrl.On("Find", uint(2)).Return(oneShot, true)
	ctrl.On("Find", uint(9)).Return(entity.Reminder{}, false)
	ctrl.On("Acknowledge", daily).Return(nil).Once()
	ctrl.On("Acknowledge", oneShot).Return(appErrors.ErrNotRecurring).Once()
	h := newTestRouter(ctrl)

	assert.Equal(t, http.StatusAccepted, do(h, http.MethodPost, "/reminders/1/taken", "").Code)
	assert.Equal(t, http.StatusConflict, do(h, http.MethodPost, "/reminders/2/taken", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/reminders/9/taken", "").Code)
	ctrl.AssertExpectations(t)
}

func TestCallbackOnlyWhenLineConfigured(t *testing.T) {
	rec := do(newTestRouter(new(mockController)), http.MethodPost, "/callback", "{}")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()
	err := v.Validate(&dto.CreateReminderRequest{Name: "a", Dosage: "b"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidReminder)
	assert.Contains(t, err.Error(), "TimeInMillis")
	assert.NoError(t, v.Validate(&dto.CreateReminderRequest{Name: "a", Dosage: "b", TimeInMillis: 1}))
}
