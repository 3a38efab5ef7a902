package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationCarriesAllFields(t *testing.T) {
	err := Validation([]FieldViolation{
		{Field: "first_name", Message: "First name must be between 2 and 50 characters"},
		{Field: "email", Message: "Email should be valid"},
	})
	require.Equal(t, ErrValidation.Code, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Len(t, err.Fields, 2)
	assert.True(t, IsValidation(err))
	assert.False(t, IsConflict(err))
}

func TestConflictNamesKey(t *testing.T) {
	err := Conflict("email", "email already used")
	assert.Equal(t, "email", err.Key)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.True(t, IsConflict(err))
}

func TestStoreWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Store(cause, "failed to persist teacher")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrStore.Code, err.Code)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFromErrorNormalises(t *testing.T) {
	plain := fmt.Errorf("boom")
	e := FromError(plain)
	require.NotNil(t, e)
	assert.Equal(t, ErrInternal.Code, e.Code)

	typed := Clone(ErrNotFound, "teacher not found")
	assert.Equal(t, "teacher not found", FromError(typed).Message)
	assert.True(t, IsNotFound(typed))

	assert.Nil(t, FromError(nil))
}
