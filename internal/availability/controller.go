package availability

import (
	"sync"
	"time"

	"prowork_backend/internal/models"
	"prowork_backend/pkg/apperrors"
)

// Availability - текущее состояние доступности одного провайдера.
// Инвариант: поля Away* заполнены тогда и только тогда, когда
// State == inactive, и AwayUntil > AwayFrom.
type Availability struct {
	State       models.AvailabilityState
	AwayFrom    *time.Time
	AwayUntil   *time.Time
	AwayMessage string
}

// Controller владеет состоянием доступности одного провайдера.
// Истечение окна отсутствия не требует таймера: EffectiveStatus -
// чистая функция от now, а CheckExpiry фиксирует переход идемпотентно.
type Controller struct {
	mu  sync.Mutex
	cur Availability
}

// NewController создает контроллер в начальном состоянии available
func NewController() *Controller {
	return &Controller{cur: Availability{State: models.AvailabilityAvailable}}
}

// NewControllerFrom восстанавливает контроллер из сохраненного состояния
func NewControllerFrom(a Availability) *Controller {
	if !a.State.IsExplicitStatus() && a.State != models.AvailabilityInactive {
		a = Availability{State: models.AvailabilityAvailable}
	}
	if a.State != models.AvailabilityInactive {
		a.AwayFrom = nil
		a.AwayUntil = nil
		a.AwayMessage = ""
	}
	return &Controller{cur: a}
}

// SetStatus выставляет явный статус (available, busy, offline) и сбрасывает
// окно отсутствия. Inactive так установить нельзя - только через ScheduleAway.
func (c *Controller) SetStatus(state models.AvailabilityState) error {
	if !state.IsExplicitStatus() {
		return apperrors.ErrInvalidStatus("availability", "status must be one of: available, busy, offline")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cur = Availability{State: state}
	return nil
}

// ScheduleAway переводит провайдера в inactive с окном отсутствия.
// При until <= from возвращает ErrInvalidWindow, состояние не меняется.
func (c *Controller) ScheduleAway(from, until time.Time, message string) error {
	if !until.After(from) {
		return apperrors.ErrInvalidWindow
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cur = Availability{
		State:       models.AvailabilityInactive,
		AwayFrom:    &from,
		AwayUntil:   &until,
		AwayMessage: message,
	}
	return nil
}

// EndAway досрочно завершает отсутствие. No-op если провайдер не inactive.
func (c *Controller) EndAway() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur.State == models.AvailabilityInactive {
		c.cur = Availability{State: models.AvailabilityAvailable}
	}
}

// EffectiveStatus - статус провайдера на момент now. Чистое чтение:
// истекшее окно отсутствия читается как available (граница включительно),
// даже если сохраненный state еще не перезаписан.
func (c *Controller) EffectiveStatus(now time.Time) models.AvailabilityState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return effectiveState(c.cur, now)
}

// CheckExpiry фиксирует переход inactive -> available, если окно истекло.
// Возвращает true только при фактическом переходе; повторные вызовы после
// истечения возвращают false.
func (c *Controller) CheckExpiry(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if effectiveState(c.cur, now) == c.cur.State {
		return false
	}

	c.cur = Availability{State: models.AvailabilityAvailable}
	return true
}

// Snapshot возвращает копию сохраненного состояния
func (c *Controller) Snapshot() Availability {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cur
}

func effectiveState(a Availability, now time.Time) models.AvailabilityState {
	if a.State == models.AvailabilityInactive && a.AwayUntil != nil && !now.Before(*a.AwayUntil) {
		return models.AvailabilityAvailable
	}
	return a.State
}
