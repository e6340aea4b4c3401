package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// CategoryToggles - включенность категории на одном канале доставки.
type CategoryToggles struct {
	Tasks     bool `json:"tasks"`
	Messages  bool `json:"messages"`
	Reviews   bool `json:"reviews"`
	Marketing bool `json:"marketing"`
}

// PushToggles - push-канал не поддерживает маркетинговые рассылки.
type PushToggles struct {
	Tasks    bool `json:"tasks"`
	Messages bool `json:"messages"`
	Reviews  bool `json:"reviews"`
}

// NotificationPreferences - матрица канал × категория. Обновляется только
// целиком, частичных мутаций нет.
type NotificationPreferences struct {
	Email CategoryToggles `json:"email"`
	Push  PushToggles     `json:"push"`
	InApp CategoryToggles `json:"inApp"`
}

// DefaultNotificationPreferences - дефолт для нового пользователя:
// все включено, кроме маркетинга по email.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email: CategoryToggles{Tasks: true, Messages: true, Reviews: true, Marketing: false},
		Push:  PushToggles{Tasks: true, Messages: true, Reviews: true},
		InApp: CategoryToggles{Tasks: true, Messages: true, Reviews: true, Marketing: true},
	}
}

func (t CategoryToggles) Enabled(category NotificationCategory) bool {
	switch category {
	case CategoryTasks:
		return t.Tasks
	case CategoryMessages:
		return t.Messages
	case CategoryReviews:
		return t.Reviews
	case CategoryMarketing:
		return t.Marketing
	default:
		return false
	}
}

func (t PushToggles) Enabled(category NotificationCategory) bool {
	switch category {
	case CategoryTasks:
		return t.Tasks
	case CategoryMessages:
		return t.Messages
	case CategoryReviews:
		return t.Reviews
	default:
		return false
	}
}

// EmailEnabled проверяет email-канал для категории
func (p NotificationPreferences) EmailEnabled(category NotificationCategory) bool {
	return p.Email.Enabled(category)
}

// InAppEnabled проверяет in-app канал для категории
func (p NotificationPreferences) InAppEnabled(category NotificationCategory) bool {
	return p.InApp.Enabled(category)
}

// PushEnabled проверяет push-канал для категории
func (p NotificationPreferences) PushEnabled(category NotificationCategory) bool {
	return p.Push.Enabled(category)
}

// NotificationPreference - строка хранения настроек уведомлений.
// Матрица лежит в JSONB целиком, под semantics "replace whole object".
type NotificationPreference struct {
	BaseModel
	UserID   string         `gorm:"not null;uniqueIndex"`
	Settings datatypes.JSON `gorm:"type:jsonb;not null"`
}

// Decode разбирает JSONB матрицу. Пустая строка настроек дает дефолт.
func (p *NotificationPreference) Decode() (NotificationPreferences, error) {
	if len(p.Settings) == 0 {
		return DefaultNotificationPreferences(), nil
	}
	var prefs NotificationPreferences
	if err := json.Unmarshal(p.Settings, &prefs); err != nil {
		return NotificationPreferences{}, err
	}
	return prefs, nil
}

// Encode сериализует матрицу в JSONB
func (p *NotificationPreference) Encode(prefs NotificationPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	p.Settings = datatypes.JSON(raw)
	return nil
}
