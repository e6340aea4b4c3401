package dto

import "time"

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,explicit_status"`
}

type ScheduleAwayRequest struct {
	AwayFrom    time.Time `json:"away_from" validate:"required"`
	AwayUntil   time.Time `json:"away_until" validate:"required"`
	AwayMessage string    `json:"away_message" validate:"max=500"`
}

// AvailabilityResponse - сохраненный и эффективный статусы. Они расходятся,
// когда окно отсутствия истекло, но переход еще не зафиксирован.
type AvailabilityResponse struct {
	State          string     `json:"state"`
	EffectiveState string     `json:"effective_state"`
	AwayFrom       *time.Time `json:"away_from,omitempty"`
	AwayUntil      *time.Time `json:"away_until,omitempty"`
	AwayMessage    string     `json:"away_message,omitempty"`
}
