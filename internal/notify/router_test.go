package notify

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/events"
	"prowork_backend/internal/models"
	"prowork_backend/internal/throttle"
)

type sentMail struct {
	recipient string
	subject   string
	body      string
}

// fakeTransport записывает отправки; err, если задан, возвращается из Send.
type fakeTransport struct {
	sent []sentMail
	err  error
}

func (f *fakeTransport) Send(recipient, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

func newTestRouter(mail MailTransport) *Router {
	return NewRouter(throttle.NewStore(time.Minute), mail, slog.Default())
}

func allOn() models.NotificationPreferences {
	return models.NotificationPreferences{
		Email: models.CategoryToggles{Tasks: true, Messages: true, Reviews: true, Marketing: true},
		Push:  models.PushToggles{Tasks: true, Messages: true, Reviews: true},
		InApp: models.CategoryToggles{Tasks: true, Messages: true, Reviews: true, Marketing: true},
	}
}

func TestRouter_MessageEvent(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{}
	r := newTestRouter(mail)
	store := NewStore()
	now := time.Now()

	r.Ingest(store, events.MessageEvent{SenderID: "u2", ConversationID: "c1"}, "u1", "u1@prowork.com", allOn(), now)

	items := store.Notifications()
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationTypeMessage, items[0].Type)
	assert.Equal(t, "Новое сообщение", items[0].Title)
	assert.Equal(t, "c1", items[0].Metadata["conversation_id"])
	assert.False(t, items[0].Read)
	assert.NotEmpty(t, items[0].ID)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "u1@prowork.com", mail.sent[0].recipient)
	assert.Equal(t, "Новое сообщение", mail.sent[0].subject)
}

// Собственные сообщения пользователя не дают ни уведомления, ни письма.
func TestRouter_SelfSuppression(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{}
	r := newTestRouter(mail)
	store := NewStore()

	r.Ingest(store, events.MessageEvent{SenderID: "u1", ConversationID: "c1"}, "u1", "u1@prowork.com", allOn(), time.Now())

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, mail.sent)
	// Троттлинг тоже не затронут: следующая отправка пройдет
	assert.Equal(t, 0, r.throttle.Len())
}

func TestRouter_BookingStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status models.BookingStatus
		title  string
	}{
		{models.BookingStatusApproved, "Бронирование подтверждено"},
		{models.BookingStatusDeclined, "Бронирование отклонено"},
		{models.BookingStatusRescheduled, "Бронирование перенесено"},
		{models.BookingStatusCancelled, "Бронирование отменено"},
		{models.BookingStatus("weird"), "Обновление бронирования"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(&fakeTransport{})
			store := NewStore()

			r.Ingest(store, events.BookingEvent{Status: tc.status, BookingID: "b1"}, "u1", "", allOn(), time.Now())

			items := store.Notifications()
			require.Len(t, items, 1)
			assert.Equal(t, tc.title, items[0].Title)
			assert.Equal(t, models.NotificationTypeBooking, items[0].Type)
			assert.Equal(t, "b1", items[0].Metadata["booking_id"])
		})
	}
}

// Сценарий B: два события в одном диалоге за 10 секунд - одно письмо,
// третье событие через 70 секунд - второе письмо.
func TestRouter_EmailThrottledPerThread(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{}
	r := newTestRouter(mail)
	store := NewStore()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	event := events.MessageEvent{SenderID: "u2", ConversationID: "c1"}
	r.Ingest(store, event, "u1", "u1@prowork.com", allOn(), t0)
	r.Ingest(store, event, "u1", "u1@prowork.com", allOn(), t0.Add(10*time.Second))
	require.Len(t, mail.sent, 1)

	r.Ingest(store, event, "u1", "u1@prowork.com", allOn(), t0.Add(70*time.Second))
	require.Len(t, mail.sent, 2)

	// In-app уведомления троттлингу не подвержены
	assert.Equal(t, 3, store.Len())
}

func TestRouter_ThrottleScopedByThread(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{}
	r := newTestRouter(mail)
	store := NewStore()
	t0 := time.Now()

	r.Ingest(store, events.MessageEvent{SenderID: "u2", ConversationID: "c1"}, "u1", "u1@prowork.com", allOn(), t0)
	r.Ingest(store, events.MessageEvent{SenderID: "u2", ConversationID: "c2"}, "u1", "u1@prowork.com", allOn(), t0)
	r.Ingest(store, events.BookingEvent{Status: models.BookingStatusApproved, BookingID: "c1"}, "u1", "u1@prowork.com", allOn(), t0)

	// Разные треды и разные типы событий не делят окно
	assert.Len(t, mail.sent, 3)
}

func TestRouter_PreferenceGating(t *testing.T) {
	t.Parallel()

	t.Run("in-app off", func(t *testing.T) {
		t.Parallel()

		mail := &fakeTransport{}
		r := newTestRouter(mail)
		store := NewStore()

		prefs := allOn()
		prefs.InApp.Messages = false

		r.Ingest(store, events.MessageEvent{SenderID: "u2", ConversationID: "c1"}, "u1", "u1@prowork.com", prefs, time.Now())

		assert.Equal(t, 0, store.Len())
		assert.Len(t, mail.sent, 1)
	})

	t.Run("email off", func(t *testing.T) {
		t.Parallel()

		mail := &fakeTransport{}
		r := newTestRouter(mail)
		store := NewStore()

		prefs := allOn()
		prefs.Email.Messages = false

		r.Ingest(store, events.MessageEvent{SenderID: "u2", ConversationID: "c1"}, "u1", "u1@prowork.com", prefs, time.Now())

		assert.Equal(t, 1, store.Len())
		assert.Empty(t, mail.sent)
	})

	t.Run("booking goes to tasks category", func(t *testing.T) {
		t.Parallel()

		mail := &fakeTransport{}
		r := newTestRouter(mail)
		store := NewStore()

		prefs := allOn()
		prefs.Email.Tasks = false
		prefs.InApp.Tasks = false

		r.Ingest(store, events.BookingEvent{Status: models.BookingStatusApproved, BookingID: "b1"}, "u1", "u1@prowork.com", prefs, time.Now())

		assert.Equal(t, 0, store.Len())
		assert.Empty(t, mail.sent)
	})
}

// Отказ транспорта не съедает окно троттлинга: следующее событие в том же
// треде получает еще одну попытку.
func TestRouter_MailFailureRollsBackThrottle(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{err: errors.New("smtp: connection refused")}
	r := newTestRouter(mail)
	store := NewStore()
	t0 := time.Now()

	event := events.MessageEvent{SenderID: "u2", ConversationID: "c1"}
	r.Ingest(store, event, "u1", "u1@prowork.com", allOn(), t0)
	assert.Empty(t, mail.sent)

	// Транспорт починился - отправка через секунду проходит
	mail.err = nil
	r.Ingest(store, event, "u1", "u1@prowork.com", allOn(), t0.Add(time.Second))
	assert.Len(t, mail.sent, 1)
}

type customEvent struct{}

func (customEvent) Kind() models.NotificationType { return "webhook" }
func (customEvent) ThreadID() string              { return "w1" }

func TestRouter_UnknownEventIgnored(t *testing.T) {
	t.Parallel()

	mail := &fakeTransport{}
	r := newTestRouter(mail)
	store := NewStore()

	r.Ingest(store, customEvent{}, "u1", "u1@prowork.com", allOn(), time.Now())

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, mail.sent)
}
