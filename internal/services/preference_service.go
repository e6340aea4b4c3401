package services

import (
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/pkg/apperrors"
)

type PreferenceService interface {
	GetPreferences(userID string) (models.NotificationPreferences, error)

	// UpdatePreferences заменяет матрицу настроек целиком.
	// Частичных обновлений намеренно нет.
	UpdatePreferences(userID string, prefs models.NotificationPreferences) error
}

type preferenceService struct {
	prefRepo repositories.PreferenceRepository
	userRepo repositories.UserRepository
}

func NewPreferenceService(prefRepo repositories.PreferenceRepository, userRepo repositories.UserRepository) PreferenceService {
	return &preferenceService{
		prefRepo: prefRepo,
		userRepo: userRepo,
	}
}

func (s *preferenceService) GetPreferences(userID string) (models.NotificationPreferences, error) {
	prefs, err := s.prefRepo.Get(userID)
	if err != nil {
		return models.NotificationPreferences{}, apperrors.InternalError(err)
	}
	return prefs, nil
}

func (s *preferenceService) UpdatePreferences(userID string, prefs models.NotificationPreferences) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.prefRepo.Replace(userID, prefs); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
