package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	for _, phone := range []string{"9876543210", "+919876543210", "+91 98765-43210", "044 2234 5678"} {
		assert.True(t, IsValidPhone(phone), phone)
	}
	for _, phone := range []string{"", "12345", "call me", "98765x43210", "+91 98765 43210 "} {
		assert.False(t, IsValidPhone(phone), phone)
	}
}

func TestIsValidSkill(t *testing.T) {
	for _, skill := range []string{"go", "c++", "c#", "node.js", "ci/cd", "machine learning"} {
		assert.True(t, IsValidSkill(skill), skill)
	}
	for _, skill := range []string{"", " go", "<script>", "sql;drop"} {
		assert.False(t, IsValidSkill(skill), skill)
	}
}

func TestRegisterCustomValidators(t *testing.T) {
	require.NoError(t, RegisterCustomValidators())

	type form struct {
		Phone  string   `binding:"required,phone"`
		Skills []string `binding:"omitempty,dive,skill"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(&form{Phone: "9876543210", Skills: []string{"go"}}))
	assert.Error(t, binding.Validator.ValidateStruct(&form{Phone: "phone"}))
	assert.Error(t, binding.Validator.ValidateStruct(&form{Phone: "9876543210", Skills: []string{"<b>"}}))
}
