package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return mr, client
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisStore_StartAndFind(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	sess, err := store.Start(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, "U123", sess.UserID)

	found, err := store.Find(ctx, "U123")
	require.NoError(t, err)
	assert.Equal(t, "U123", found.UserID)
}

func TestRedisStore_FindUnknownUser(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())

	sess, err := store.Find(context.Background(), "U404")
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_FindRenewsTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	_, err := store.Start(ctx, "U123")
	require.NoError(t, err)

	mr.FastForward(45 * time.Second)

	_, err = store.Find(ctx, "U123")
	require.NoError(t, err)

	// Without the renew on Find the session would be gone by now.
	mr.FastForward(45 * time.Second)

	_, err = store.Find(ctx, "U123")
	assert.NoError(t, err)
}

func TestRedisStore_ExpiredSessionIsGone(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	_, err := store.Start(ctx, "U123")
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)

	sess, err := store.Find(ctx, "U123")
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_FieldRoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	sess, err := store.Start(ctx, "U123")
	require.NoError(t, err)

	_, err = store.Get(ctx, sess, "email")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	require.NoError(t, store.Save(ctx, sess, "email", "a@example.com"))

	value, err := store.Get(ctx, sess, "email")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", value)
}

func TestRedisStore_All(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	sess, err := store.Start(ctx, "U123")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, sess, FieldCategory, "resort_reserve"))
	require.NoError(t, store.Save(ctx, sess, FieldStep, "email"))

	fields, err := store.All(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "resort_reserve", fields[FieldCategory])
	assert.Equal(t, "email", fields[FieldStep])
	assert.Equal(t, "U123", fields["user_id"])
}

func TestRedisStore_Clear(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	sess, err := store.Start(ctx, "U123")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, sess))
	require.NoError(t, store.Clear(ctx, sess))

	_, err = store.Find(ctx, "U123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Count(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Minute, testLogger())
	ctx := context.Background()

	for _, id := range []string{"U1", "U2", "U3"} {
		_, err := store.Start(ctx, id)
		require.NoError(t, err)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCriteria_EncodeDecode(t *testing.T) {
	criteria := map[string][]string{
		"headcount": {"1", "2", "3"},
		"nights":    {"1", "2"},
	}

	encoded, err := EncodeCriteria(criteria)
	require.NoError(t, err)

	decoded, err := DecodeCriteria(encoded)
	require.NoError(t, err)
	assert.Equal(t, criteria, decoded)
}

func TestDecodeCriteria_Empty(t *testing.T) {
	decoded, err := DecodeCriteria("")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
