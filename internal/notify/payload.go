package notify

import (
	"prowork_backend/internal/events"
	"prowork_backend/internal/models"
)

// Payload - заголовок и текст уведомления плюс его классификация.
type Payload struct {
	Type        models.NotificationType
	Category    models.NotificationCategory
	Title       string
	Description string
	Metadata    map[string]string
}

// payloadFor строит payload по фиксированному маппингу. Для бронирований
// текст выбирается по статусу, для сообщений текст один. Неизвестный тип
// события дает ok == false и молча игнорируется выше.
func payloadFor(event events.Event) (Payload, bool) {
	switch e := event.(type) {
	case events.MessageEvent:
		return Payload{
			Type:        models.NotificationTypeMessage,
			Category:    models.CategoryMessages,
			Title:       "Новое сообщение",
			Description: "Вам пришло новое сообщение",
			Metadata:    map[string]string{"conversation_id": e.ConversationID},
		}, true

	case events.BookingEvent:
		title, description := bookingText(e.Status)
		return Payload{
			Type:        models.NotificationTypeBooking,
			Category:    models.CategoryTasks,
			Title:       title,
			Description: description,
			Metadata:    map[string]string{"booking_id": e.BookingID},
		}, true

	default:
		return Payload{}, false
	}
}

func bookingText(status models.BookingStatus) (title, description string) {
	switch status {
	case models.BookingStatusApproved:
		return "Бронирование подтверждено", "Ваше бронирование подтверждено исполнителем"
	case models.BookingStatusDeclined:
		return "Бронирование отклонено", "К сожалению, ваше бронирование отклонено"
	case models.BookingStatusRescheduled:
		return "Бронирование перенесено", "Время вашего бронирования изменилось"
	case models.BookingStatusCancelled:
		return "Бронирование отменено", "Ваше бронирование было отменено"
	default:
		return "Обновление бронирования", "Статус вашего бронирования изменился"
	}
}
