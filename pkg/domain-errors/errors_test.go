package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("new carries code and message", func(t *testing.T) {
		err := New(CodeNotFound, "patient not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Equal(t, "patient not found", err.Error())
	})

	t.Run("wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load patients")
		require.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load patients: connection reset", err.Error())
		assert.Equal(t, "failed to load patients", Message(err))
	})

	t.Run("wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("intake: %w", New(CodeDuplicateCompletion, "already completed"))
		code, ok := CodeOf(err)
		require.True(t, ok)
		assert.Equal(t, CodeDuplicateCompletion, code)
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		_, ok := CodeOf(errors.New("boom"))
		assert.False(t, ok)
		assert.Equal(t, "internal error", Message(errors.New("boom")))
	})
}
