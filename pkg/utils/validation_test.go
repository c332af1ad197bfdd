package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `validate:"required"`
	Level string `validate:"oneof=debug info"`
	Port  int    `validate:"gte=1"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "x", Level: "info", Port: 80}))

	err := ValidateStruct(sample{Level: "loud"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "name is required")
		assert.Contains(t, err.Error(), "level must be one of: debug info")
		assert.Contains(t, err.Error(), "port must be greater than or equal to 1")
	}
}
