package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payStruct struct {
	Method string `validate:"required,paymethod"`
	Amount int    `validate:"min=1,max=100"`
	Action string `validate:"omitempty,oneof=add remove"`
}

func TestValidator_PayMethod(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		method  string
		wantErr bool
	}{
		{"cash", "cash", false},
		{"bank", "bank", false},
		{"uppercase", "BANK", false},
		{"missing", "", true},
		{"unknown", "crypto", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(payStruct{Method: tt.method, Amount: 1})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	err := GetValidator().ValidateStruct(payStruct{Method: "crypto", Amount: 0, Action: "steal"})
	require.Error(t, err)

	fields := FormatValidationError(err)

	assert.Equal(t, "Invalid payment method", fields["method"])
	assert.Equal(t, "Must be at least 1", fields["amount"])
	assert.Equal(t, "Must be one of: add remove", fields["action"])
}

func TestFormatValidationError_NotValidation(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("boom")))
}
