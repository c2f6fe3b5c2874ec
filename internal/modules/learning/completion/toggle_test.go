package completion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_ConfirmKeepsNewValue(t *testing.T) {
	tg := NewToggle(false)
	require.NoError(t, tg.Begin(true))
	assert.Equal(t, StatePending, tg.State())
	assert.True(t, tg.Displayed())
	assert.False(t, tg.Committed())

	require.NoError(t, tg.Confirm(true))
	assert.Equal(t, StateConfirmed, tg.State())
	assert.True(t, tg.Displayed())
	assert.True(t, tg.Committed())
}

func TestToggle_FailRestoresPrior(t *testing.T) {
	tg := NewToggle(true)
	require.NoError(t, tg.Begin(false))
	assert.False(t, tg.Displayed())

	cause := errors.New("write failed")
	require.NoError(t, tg.Fail(cause))
	assert.Equal(t, StateRolledBack, tg.State())
	assert.True(t, tg.Displayed())
	assert.ErrorIs(t, tg.Err(), cause)
}

func TestToggle_RejectsOutOfOrderTransitions(t *testing.T) {
	tg := NewToggle(false)
	assert.ErrorIs(t, tg.Confirm(true), ErrInvalidTransition)
	assert.ErrorIs(t, tg.Fail(nil), ErrInvalidTransition)

	require.NoError(t, tg.Begin(true))
	assert.ErrorIs(t, tg.Begin(false), ErrInvalidTransition)

	require.NoError(t, tg.Confirm(true))
	assert.ErrorIs(t, tg.Confirm(true), ErrInvalidTransition)

	// Settled toggles accept a fresh Begin.
	require.NoError(t, tg.Begin(false))
	require.NoError(t, tg.Fail(errors.New("x")))
	assert.True(t, tg.Displayed())
	require.NoError(t, tg.Begin(false))
	assert.Nil(t, tg.Err())
}

func TestToggle_ConfirmUsesStoredValue(t *testing.T) {
	tg := NewToggle(false)
	require.NoError(t, tg.Begin(true))
	require.NoError(t, tg.Confirm(false))
	assert.False(t, tg.Displayed())
	assert.False(t, tg.Committed())
}
