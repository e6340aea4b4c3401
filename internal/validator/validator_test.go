package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prowork_backend/internal/services/dto"
)

func TestExplicitStatusRule(t *testing.T) {
	v := New()

	for _, status := range []string{"available", "busy", "offline"} {
		assert.NoError(t, v.Validate(&dto.SetStatusRequest{Status: status}), status)
	}

	// Inactive выставляется только через окно отсутствия
	for _, status := range []string{"inactive", "vacation", ""} {
		err := v.Validate(&dto.SetStatusRequest{Status: status})
		require.Error(t, err, status)
	}
}

func TestValidationErrorUsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&dto.SetStatusRequest{Status: "inactive"})
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, validationErr.Errors, "status")
	assert.Equal(t, "must be one of: available, busy, offline", validationErr.Errors["status"])
}
