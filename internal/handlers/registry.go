package handlers

import (
	"prowork_backend/internal/services"
	"prowork_backend/internal/validator"
)

// AppHandlers содержит все HTTP хэндлеры приложения.
type AppHandlers struct {
	AvailabilityHandler *AvailabilityHandler
	NotificationHandler *NotificationHandler
	PreferenceHandler   *PreferenceHandler
}

func NewAppHandlers(container *services.ServiceContainer) *AppHandlers {
	v := validator.New()

	return &AppHandlers{
		AvailabilityHandler: NewAvailabilityHandler(container.AvailabilityService, v),
		NotificationHandler: NewNotificationHandler(container.NotificationService, v),
		PreferenceHandler:   NewPreferenceHandler(container.PreferenceService),
	}
}
