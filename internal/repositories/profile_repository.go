package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"prowork_backend/internal/models"
)

var ErrProfileNotFound = errors.New("provider profile not found")

type ProfileRepository interface {
	FindByUserID(userID string) (*models.ProviderProfile, error)

	// UpdateAvailability перезаписывает состояние доступности целиком:
	// статус и все поля окна отсутствия одной операцией.
	UpdateAvailability(userID string, state models.AvailabilityState, awayFrom, awayUntil *time.Time, awayMessage string) error

	// FindExpiredAway возвращает профили в inactive с истекшим окном -
	// кандидаты для фонового перевода в available.
	FindExpiredAway(now time.Time) ([]models.ProviderProfile, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateAvailability(userID string, state models.AvailabilityState, awayFrom, awayUntil *time.Time, awayMessage string) error {
	result := r.db.Model(&models.ProviderProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"availability_state": state,
			"away_from":          awayFrom,
			"away_until":         awayUntil,
			"away_message":       awayMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) FindExpiredAway(now time.Time) ([]models.ProviderProfile, error) {
	var profiles []models.ProviderProfile
	err := r.db.
		Where("availability_state = ? AND away_until <= ?", models.AvailabilityInactive, now).
		Find(&profiles).Error
	return profiles, err
}
