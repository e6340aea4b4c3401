package models

import "time"

// ProviderProfile - профиль провайдера услуг вместе с его текущей
// доступностью. Поля Away* заполнены только при state == inactive.
type ProviderProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	DisplayName string `gorm:"not null"`
	Headline    string
	City        string

	AvailabilityState AvailabilityState `gorm:"type:varchar(20);not null;default:'available'"`
	AwayFrom          *time.Time
	AwayUntil         *time.Time `gorm:"index"`
	AwayMessage       string
}
