package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := errors.New("connection reset")

	t.Run("matches outer code", func(t *testing.T) {
		err := Wrap(base, CodeStoreFailure, "insert registration")
		assert.True(t, HasCode(err, CodeStoreFailure))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches nested code through fmt wrapping", func(t *testing.T) {
		inner := New(CodeNotFound, "contest not found")
		err := fmt.Errorf("confirm: %w", Wrap(inner, CodeConflict, "outer"))
		assert.True(t, HasCode(err, CodeConflict))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(base, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(base))
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		err := Wrap(base, CodeGatewayLookup, "retrieve session")
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "retrieve session", MessageOf(err))
	})
}
