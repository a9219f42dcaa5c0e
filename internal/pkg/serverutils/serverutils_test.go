package serverutils

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Name  string `validate:"required,max=10"`
		Email string `validate:"omitempty,email"`
	}

	t.Run("valid payload passes", func(t *testing.T) {
		err := ValidateRequest(&payload{Name: "Nova"})
		assert.NoError(t, err)
	})

	t.Run("missing required field yields 400", func(t *testing.T) {
		err := ValidateRequest(&payload{})
		require.Error(t, err)

		var fiberErr *fiber.Error
		require.ErrorAs(t, err, &fiberErr)
		assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
		assert.Contains(t, fiberErr.Message, "Name")
	})

	t.Run("bad email yields 400", func(t *testing.T) {
		err := ValidateRequest(&payload{Name: "Nova", Email: "not-an-email"})
		require.Error(t, err)

		var fiberErr *fiber.Error
		require.ErrorAs(t, err, &fiberErr)
		assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	})
}

func TestApiErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapApiError(fiber.StatusServiceUnavailable, "search backend down", cause)

	assert.Equal(t, "search backend down: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewApiError(fiber.StatusConflict, "slug already taken")
	assert.Equal(t, "slug already taken", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestSuccessResponse(t *testing.T) {
	res := SuccessResponse("created", map[string]string{"id": "abc"})
	assert.True(t, res.Success)
	assert.Equal(t, "created", res.Message)
	assert.Equal(t, "abc", res.Data["id"])

	errRes := ErrorResponse(fiber.StatusNotFound, "not found")
	assert.False(t, errRes.Success)
	assert.Equal(t, fiber.StatusNotFound, errRes.Code)
}
