package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_AcquireRelease(t *testing.T) {
	_, client := setupTestRedis(t)
	locker := NewRedisLocker(client, testLogger())
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "U123"))

	err := locker.Acquire(ctx, "U123")
	assert.ErrorIs(t, err, ErrSessionBusy)

	locker.Release(ctx, "U123")
	assert.NoError(t, locker.Acquire(ctx, "U123"))
}

func TestRedisLocker_IndependentUsers(t *testing.T) {
	_, client := setupTestRedis(t)
	locker := NewRedisLocker(client, testLogger())
	ctx := context.Background()

	require.NoError(t, locker.Acquire(ctx, "U1"))
	assert.NoError(t, locker.Acquire(ctx, "U2"))
}
