package services

import (
	"sync"
	"time"

	"prowork_backend/internal/availability"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"
)

type AvailabilityService interface {
	// GetAvailability возвращает статус провайдера на момент now.
	// Ленивая проверка истечения: лапнувшее окно фиксируется прямо здесь,
	// фоновые таймеры для корректности не нужны.
	GetAvailability(userID string, now time.Time) (*dto.AvailabilityResponse, error)

	SetStatus(userID string, status models.AvailabilityState) (*dto.AvailabilityResponse, error)
	ScheduleAway(userID string, req *dto.ScheduleAwayRequest) (*dto.AvailabilityResponse, error)
	EndAway(userID string) (*dto.AvailabilityResponse, error)

	// ExpireLapsed - пакетная фиксация истекших окон для фонового воркера.
	// Нужна только для push-сценариев; чтение и без нее всегда корректно.
	ExpireLapsed(now time.Time) (int, error)
}

type availabilityService struct {
	profileRepo repositories.ProfileRepository

	mu          sync.Mutex
	controllers map[string]*availability.Controller
}

func NewAvailabilityService(profileRepo repositories.ProfileRepository) AvailabilityService {
	return &availabilityService{
		profileRepo: profileRepo,
		controllers: make(map[string]*availability.Controller),
	}
}

// controllerFor лениво поднимает контроллер из сохраненного профиля.
// Один контроллер на провайдера - один логический писатель его состояния.
func (s *availabilityService) controllerFor(userID string) (*availability.Controller, error) {
	s.mu.Lock()
	if ctrl, ok := s.controllers[userID]; ok {
		s.mu.Unlock()
		return ctrl, nil
	}
	s.mu.Unlock()

	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrProfileNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	ctrl := availability.NewControllerFrom(availability.Availability{
		State:       profile.AvailabilityState,
		AwayFrom:    profile.AwayFrom,
		AwayUntil:   profile.AwayUntil,
		AwayMessage: profile.AwayMessage,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.controllers[userID]; ok {
		return existing, nil
	}
	s.controllers[userID] = ctrl
	return ctrl, nil
}

func (s *availabilityService) persist(userID string, snap availability.Availability) error {
	err := s.profileRepo.UpdateAvailability(userID, snap.State, snap.AwayFrom, snap.AwayUntil, snap.AwayMessage)
	if err != nil {
		if err == repositories.ErrProfileNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *availabilityService) GetAvailability(userID string, now time.Time) (*dto.AvailabilityResponse, error) {
	ctrl, err := s.controllerFor(userID)
	if err != nil {
		return nil, err
	}

	if ctrl.CheckExpiry(now) {
		if err := s.persist(userID, ctrl.Snapshot()); err != nil {
			return nil, err
		}
		logger.Info("away window lapsed", "user_id", userID)
	}

	return buildAvailabilityResponse(ctrl, now), nil
}

func (s *availabilityService) SetStatus(userID string, status models.AvailabilityState) (*dto.AvailabilityResponse, error) {
	ctrl, err := s.controllerFor(userID)
	if err != nil {
		return nil, err
	}

	if err := ctrl.SetStatus(status); err != nil {
		return nil, err
	}

	if err := s.persist(userID, ctrl.Snapshot()); err != nil {
		return nil, err
	}

	return buildAvailabilityResponse(ctrl, time.Now()), nil
}

func (s *availabilityService) ScheduleAway(userID string, req *dto.ScheduleAwayRequest) (*dto.AvailabilityResponse, error) {
	ctrl, err := s.controllerFor(userID)
	if err != nil {
		return nil, err
	}

	if err := ctrl.ScheduleAway(req.AwayFrom, req.AwayUntil, req.AwayMessage); err != nil {
		return nil, err
	}

	if err := s.persist(userID, ctrl.Snapshot()); err != nil {
		return nil, err
	}

	return buildAvailabilityResponse(ctrl, time.Now()), nil
}

func (s *availabilityService) EndAway(userID string) (*dto.AvailabilityResponse, error) {
	ctrl, err := s.controllerFor(userID)
	if err != nil {
		return nil, err
	}

	ctrl.EndAway()

	if err := s.persist(userID, ctrl.Snapshot()); err != nil {
		return nil, err
	}

	return buildAvailabilityResponse(ctrl, time.Now()), nil
}

func (s *availabilityService) ExpireLapsed(now time.Time) (int, error) {
	profiles, err := s.profileRepo.FindExpiredAway(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range profiles {
		ctrl, err := s.controllerFor(profiles[i].UserID)
		if err != nil {
			logger.Warn("skip expired away profile", "user_id", profiles[i].UserID, "error", err.Error())
			continue
		}

		if !ctrl.CheckExpiry(now) {
			continue
		}

		if err := s.persist(profiles[i].UserID, ctrl.Snapshot()); err != nil {
			logger.Warn("persist lapsed transition failed", "user_id", profiles[i].UserID, "error", err.Error())
			continue
		}
		expired++
	}

	return expired, nil
}

func buildAvailabilityResponse(ctrl *availability.Controller, now time.Time) *dto.AvailabilityResponse {
	snap := ctrl.Snapshot()
	return &dto.AvailabilityResponse{
		State:          string(snap.State),
		EffectiveState: string(ctrl.EffectiveStatus(now)),
		AwayFrom:       snap.AwayFrom,
		AwayUntil:      snap.AwayUntil,
		AwayMessage:    snap.AwayMessage,
	}
}
