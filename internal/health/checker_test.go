package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCheck struct {
	name string
	err  error
}

func (c staticCheck) Name() string                    { return c.name }
func (c staticCheck) Check(ctx context.Context) error { return c.err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_LivenessAlwaysHealthy(t *testing.T) {
	checker := NewChecker(testLogger(), staticCheck{name: "broken", err: errors.New("down")})
	assert.NoError(t, checker.Liveness(context.Background()))
}

func TestChecker_ReadinessJoinsFailures(t *testing.T) {
	checker := NewChecker(testLogger(),
		staticCheck{name: "ok"},
		staticCheck{name: "redis", err: errors.New("connection refused")},
	)

	err := checker.Readiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestChecker_ReadinessHealthy(t *testing.T) {
	checker := NewChecker(testLogger(), staticCheck{name: "ok"})
	assert.NoError(t, checker.Readiness(context.Background()))
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	check := NewRedisChecker(client)
	assert.Equal(t, "redis", check.Name())
	assert.NoError(t, check.Check(context.Background()))

	mr.Close()
	assert.Error(t, check.Check(context.Background()))
}
