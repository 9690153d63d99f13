package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	errs := ValidateRegister("alice", "Sunflower1", "Alice Novak")
	assert.False(t, errs.HasErrors())

	errs = ValidateRegister("", "", "")
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")

	errs = ValidateRegister("al", "Sunflower1", "")
	assert.Contains(t, errs, "username")

	errs = ValidateRegister("alice!", "Sunflower1", "")
	assert.Contains(t, errs, "username")

	errs = ValidateRegister("alice", "short", "")
	assert.Contains(t, errs, "password")
}

func TestValidateLogin(t *testing.T) {
	assert.False(t, ValidateLogin("alice", "pw").HasErrors())
	assert.True(t, ValidateLogin("", "pw").HasErrors())
	assert.True(t, ValidateLogin("alice", "").HasErrors())
}

func TestValidateResource(t *testing.T) {
	errs := ValidateResource("Tractor", "Available", "Alice", "123-456", "Village X", "Immediately")
	assert.False(t, errs.HasErrors())

	errs = ValidateResource("", "Available", "Alice", "123-456", "Village X", " ")
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "next_available")
	assert.NotContains(t, errs, "status")
}
