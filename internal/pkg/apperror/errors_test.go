package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", NewValidation("amount", "must not be negative"), ErrValidation},
		{"not found", NewNotFound("subscription"), ErrNotFound},
		{"transition", NewInvalidTransition("cancelled", "active"), ErrInvalidTransition},
		{"dependency", NewDependencyWrite("price", cause), ErrDependencyWrite},
		{"store", Store("find subscription", cause), ErrUnexpectedStore},
		{"unauthorized", NewUnauthorized("missing token"), ErrUnauthorized},
		{"forbidden", NewForbidden("admins only"), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}
}

func TestDependencyAndStoreKeepCause(t *testing.T) {
	cause := errors.New("unique violation")

	assert.ErrorIs(t, NewDependencyWrite("plan", cause), cause)
	assert.ErrorIs(t, Store("create plan", cause), cause)
}

func TestStoreIsIdempotent(t *testing.T) {
	assert.Nil(t, Store("noop", nil))

	first := Store("list prices", errors.New("boom"))
	second := Store("outer", first)
	assert.Same(t, first, second)
}

func TestInvalidTransitionNamesBothStates(t *testing.T) {
	err := NewInvalidTransition("expired", "paused")
	assert.Contains(t, err.Error(), "expired")
	assert.Contains(t, err.Error(), "paused")
}
