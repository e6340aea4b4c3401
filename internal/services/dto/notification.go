package dto

import "time"

type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type NotificationCriteria struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

type IngestMessageRequest struct {
	RecipientID    string `json:"recipient_id" validate:"required"`
	SenderID       string `json:"sender_id" validate:"required"`
	ConversationID string `json:"conversation_id" validate:"required"`
}

type IngestBookingRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Status      string `json:"status" validate:"required"`
	BookingID   string `json:"booking_id" validate:"required"`
}
