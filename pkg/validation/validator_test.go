package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required,min=3,max=32"`
	Category string `json:"category" validate:"required,mongodb"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "ab", Category: "not-an-id", Email: "nope"})
	require.Error(t, err)

	got := Errors(err)
	require.Len(t, got, 3)
	assert.Equal(t, ValidationError{Field: "name", Tag: "min", Message: "name must be at least 3 characters"}, got[0])
	assert.Equal(t, ValidationError{Field: "category", Tag: "mongodb", Message: "Invalid category id format"}, got[1])
	assert.Equal(t, ValidationError{Field: "email", Tag: "email", Message: "Invalid email address"}, got[2])
}

func TestValidatePasses(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sample{Name: "Phones", Category: "5f8d0d55b54764421b7156c3"})
	assert.NoError(t, err)
}

func TestErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Errors(errors.New("boom")))
}
