package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `json:"name" validate:"required,max=10"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Kind   string  `json:"kind" validate:"oneof=sale expense"`
	PIN    string  `json:"pin" validate:"pin"`
	Date   string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(sample{Name: "Maíz", Amount: 10, Kind: "sale", PIN: "1234", Date: "2025-01-02"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	v := New()
	err := v.Validate(sample{Amount: 0, Kind: "gift", PIN: "12a4", Date: "02/01/2025"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Fields["name"])
	assert.Equal(t, "must be greater than 0", ve.Fields["amount"])
	assert.Equal(t, "must be one of [sale expense]", ve.Fields["kind"])
	assert.Equal(t, "must be exactly 4 digits", ve.Fields["pin"])
	assert.Contains(t, ve.Fields, "date")
	assert.Contains(t, err.Error(), "amount must be greater than 0")
}
