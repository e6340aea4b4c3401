package repositories

import (
	"errors"

	"gorm.io/gorm"

	"prowork_backend/internal/models"
)

type PreferenceRepository interface {
	// Get возвращает настройки уведомлений пользователя.
	// Для пользователя без сохраненной строки - дефолтная матрица.
	Get(userID string) (models.NotificationPreferences, error)

	// Replace перезаписывает матрицу целиком (upsert). Частичных
	// обновлений нет - так исключаются рваные апдейты.
	Replace(userID string, prefs models.NotificationPreferences) error
}

type PreferenceRepositoryImpl struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &PreferenceRepositoryImpl{db: db}
}

func (r *PreferenceRepositoryImpl) Get(userID string) (models.NotificationPreferences, error) {
	var row models.NotificationPreference
	if err := r.db.First(&row, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultNotificationPreferences(), nil
		}
		return models.NotificationPreferences{}, err
	}
	return row.Decode()
}

func (r *PreferenceRepositoryImpl) Replace(userID string, prefs models.NotificationPreferences) error {
	var row models.NotificationPreference

	err := r.db.First(&row, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.NotificationPreference{UserID: userID}
		if encErr := row.Encode(prefs); encErr != nil {
			return encErr
		}
		return r.db.Create(&row).Error
	case err != nil:
		return err
	default:
		if encErr := row.Encode(prefs); encErr != nil {
			return encErr
		}
		return r.db.Model(&row).Update("settings", row.Settings).Error
	}
}
