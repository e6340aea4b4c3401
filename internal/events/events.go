package events

import (
	"prowork_backend/internal/models"
)

// Event - доменное событие, которое может породить уведомление.
// ThreadID идентифицирует тред (диалог или бронирование): троттлинг
// email-уведомлений работает по треду, а не по пользователю в целом.
type Event interface {
	Kind() models.NotificationType
	ThreadID() string
}

// MessageEvent - новое сообщение в диалоге
type MessageEvent struct {
	SenderID       string
	ConversationID string
}

func (e MessageEvent) Kind() models.NotificationType { return models.NotificationTypeMessage }
func (e MessageEvent) ThreadID() string              { return e.ConversationID }

// BookingEvent - изменение статуса бронирования
type BookingEvent struct {
	Status    models.BookingStatus
	BookingID string
}

func (e BookingEvent) Kind() models.NotificationType { return models.NotificationTypeBooking }
func (e BookingEvent) ThreadID() string              { return e.BookingID }
