package batch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputError(t *testing.T) {
	cause := errors.New("boom")
	err := &InputError{Code: ErrCodeBadConcentration, Field: "concentrations", Message: "invalid", Err: cause}

	assert.Equal(t, "E101: invalid: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInputError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsInputError(cause))
	assert.False(t, IsInternalError(err))
}

func TestNewInternalError(t *testing.T) {
	ie := newInternalError("index out of range")
	assert.Equal(t, "internal error during evaluation: index out of range", ie.Error())
	assert.NotEmpty(t, ie.Stack)
	assert.True(t, IsInternalError(ie))

	cause := errors.New("nil map")
	ie = newInternalError(cause)
	require.ErrorIs(t, ie, cause)
}
