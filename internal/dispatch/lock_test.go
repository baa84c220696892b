package dispatch

import (
	"testing"
	"time"

	"github.com/recordar/contact-gateway/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker(t *testing.T) {
	mr, adapter := helpers.SetupTestRedis(t)
	locker := NewLocker(adapter, time.Minute)

	t.Run("acquire and contend", func(t *testing.T) {
		acquired, err := locker.Acquire("comm-1")
		require.NoError(t, err)
		assert.True(t, acquired)

		again, err := locker.Acquire("comm-1")
		require.NoError(t, err)
		assert.False(t, again)
	})

	t.Run("independent keys", func(t *testing.T) {
		acquired, err := locker.Acquire("comm-2")
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("release frees the lock", func(t *testing.T) {
		require.NoError(t, locker.Release("comm-1"))

		acquired, err := locker.Acquire("comm-1")
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("ttl expiry frees the lock", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)

		acquired, err := locker.Acquire("comm-2")
		require.NoError(t, err)
		assert.True(t, acquired)
	})
}
