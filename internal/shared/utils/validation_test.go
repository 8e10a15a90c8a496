package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ticketd/internal/shared/errors"
)

type sample struct {
	Key   string `json:"ticket_key" validate:"required,ticketkey"`
	From  uint   `json:"from" validate:"gt=0"`
	To    uint   `json:"to" validate:"gt=0"`
	State string `json:"state" validate:"omitempty,oneof=open scanned void"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(sample{Key: "tk_abcdefghijkl", From: 1, To: 2}))
	})

	t.Run("collects every field error", func(t *testing.T) {
		err := ValidateStruct(sample{Key: "order_123", State: "lost"})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))

		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		details := appErr.Details
		assert.Contains(t, details, "ticket_key must be a ticket key")
		assert.Contains(t, details, "from must be greater than 0")
		assert.Contains(t, details, "to must be greater than 0")
		assert.Contains(t, details, "state must be one of [open scanned void]")
	})
}
