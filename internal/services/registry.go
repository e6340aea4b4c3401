package services

import (
	"gorm.io/gorm"

	"prowork_backend/internal/config"
	"prowork_backend/internal/email"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/notify"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/throttle"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AvailabilityService AvailabilityService
	NotificationService NotificationService
	PreferenceService   PreferenceService
	EmailService        email.Provider
	ThrottleStore       *throttle.Store
}

// mailAdapter приводит email.Provider к notify.MailTransport
type mailAdapter struct {
	provider email.Provider
}

func (a mailAdapter) Send(recipient, subject, body string) error {
	return a.provider.SendNotification(recipient, subject, body)
}

// NewServiceContainer собирает репозитории и сервисы поверх одного
// соединения с базой. ThrottleStore создается здесь и живет вместе с
// контейнером - никакого глобального состояния.
func NewServiceContainer(db *gorm.DB, cfg *config.Config) (*ServiceContainer, error) {
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	prefRepo := repositories.NewPreferenceRepository(db)

	var emailService email.Provider
	if cfg.Email.Mock {
		emailService = email.NewMockProvider(logger.GetLogger())
	} else {
		sender, err := email.NewSMTPSender(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
			UseSSL:    cfg.Email.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		emailService = sender
	}

	throttleStore := throttle.NewStore(cfg.ThrottleWindow())

	var mail notify.MailTransport = mailAdapter{provider: emailService}

	return &ServiceContainer{
		AvailabilityService: NewAvailabilityService(profileRepo),
		NotificationService: NewNotificationService(notificationRepo, userRepo, prefRepo, throttleStore, mail),
		PreferenceService:   NewPreferenceService(prefRepo, userRepo),
		EmailService:        emailService,
		ThrottleStore:       throttleStore,
	}, nil
}
