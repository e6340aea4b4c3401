package models

import (
	"gorm.io/datatypes"
	"time"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index"`
	Type    NotificationType `gorm:"type:varchar(20);not null"` // "message", "booking"
	Title   string           `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"conversation_id": "...", "booking_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
