package notify

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"prowork_backend/internal/events"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/throttle"
)

// MailTransport - внешний отправитель email. Подменяется в тестах.
type MailTransport interface {
	Send(recipient, subject, body string) error
}

// Router превращает доменное событие в ноль-или-одно сохраненное
// уведомление и ноль-или-одну отправку email, с учетом настроек
// пользователя и троттлинга по треду.
type Router struct {
	throttle *throttle.Store
	mail     MailTransport
	logger   *slog.Logger
}

func NewRouter(throttleStore *throttle.Store, mail MailTransport, logger *slog.Logger) *Router {
	return &Router{
		throttle: throttleStore,
		mail:     mail,
		logger:   logger,
	}
}

// Ingest обрабатывает событие для одного пользователя-получателя.
// Никогда не возвращает ошибку: все ожидаемые сбои (неизвестный тип
// события, отказ почтового транспорта) поглощаются и логируются.
//
//  1. собственные сообщения пользователя подавляются целиком;
//  2. in-app: при включенной категории уведомление кладется в store
//     (подписчики store получают его немедленно);
//  3. email: при включенной категории и свободном окне троттлинга
//     письмо уходит в MailTransport; отказ транспорта откатывает
//     запись троттлинга, чтобы следующая попытка не была подавлена.
func (r *Router) Ingest(store *Store, event events.Event, currentUserID, email string, prefs models.NotificationPreferences, now time.Time) {
	if msg, ok := event.(events.MessageEvent); ok && msg.SenderID == currentUserID {
		return
	}

	payload, known := payloadFor(event)
	if !known {
		r.logger.Debug("ignoring unknown event type", "thread_id", event.ThreadID())
		return
	}

	if prefs.InAppEnabled(payload.Category) {
		store.Append(Notification{
			ID:          uuid.NewString(),
			Type:        payload.Type,
			Title:       payload.Title,
			Description: payload.Description,
			Timestamp:   now,
			Metadata:    payload.Metadata,
		})
	}

	if prefs.EmailEnabled(payload.Category) && email != "" {
		r.dispatchEmail(payload, event, email, now)
	}
}

func (r *Router) dispatchEmail(payload Payload, event events.Event, email string, now time.Time) {
	key := throttle.Key(event.Kind(), event.ThreadID())

	if !r.throttle.TryDispatch(key, now) {
		r.logger.Debug("email throttled", "key", key)
		return
	}

	err := r.mail.Send(email, payload.Title, payload.Description)
	if err != nil {
		// Неудавшаяся отправка не должна съедать окно
		r.throttle.Forget(key, now)
	}
	logger.MailLog(email, payload.Title, err)
}
