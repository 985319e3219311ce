package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "Student not found or not in this lecture.")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	cause := fmt.Errorf("boom")
	appErr := FromError(cause)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, cause)

	wrapped := fmt.Errorf("handler: %w", Clone(ErrConflict, "dup"))
	assert.Equal(t, ErrConflict.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}
