package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerPayload struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestDefaultValidator_Validate(t *testing.T) {
	v := NewDefaultValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(registerPayload{Email: "merchant@example.com", Password: "s3cretpass"})
		assert.NoError(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		err := v.Validate(registerPayload{Email: "not-an-email", Password: "short"})
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		msgs := ErrorMessages(err)
		assert.Equal(t, "must be a valid email address", msgs["Email"])
		assert.Equal(t, "must be at least 8", msgs["Password"])
	})
}

func TestErrorMessages_NonValidationError(t *testing.T) {
	assert.Nil(t, ErrorMessages(assert.AnError))
}
