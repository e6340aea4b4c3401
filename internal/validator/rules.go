package validator

import (
	"github.com/go-playground/validator/v10"

	"prowork_backend/internal/models"
)

// registerCustomRules регистрирует доменные правила валидации.
func registerCustomRules(v *validator.Validate) {
	// explicit_status: статус, который можно выставить напрямую.
	// Inactive сюда не входит - он устанавливается только через окно отсутствия.
	_ = v.RegisterValidation("explicit_status", func(fl validator.FieldLevel) bool {
		return models.AvailabilityState(fl.Field().String()).IsExplicitStatus()
	})
}
