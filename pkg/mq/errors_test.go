package mq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Behyna/vvm-service/pkg/mq"
	"github.com/stretchr/testify/assert"
)

func TestTemporary(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, mq.Temporary(nil))
	})

	t.Run("wrapped temporary error is detected", func(t *testing.T) {
		cause := errors.New("DATABASE_ERROR")
		err := fmt.Errorf("handle: %w", mq.Temporary(cause))

		assert.True(t, mq.IsTemporary(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "handle: DATABASE_ERROR", err.Error())
	})

	t.Run("plain error is not temporary", func(t *testing.T) {
		assert.False(t, mq.IsTemporary(errors.New("invalid payload")))
	})
}
