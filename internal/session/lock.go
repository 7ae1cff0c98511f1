package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPattern = "kenpo:lock:%s"
	lockTTL        = 5 * time.Second
)

// RedisLocker implements the per-user advisory lock with SETNX. The lock
// TTL bounds how long a crashed turn can block the user.
type RedisLocker struct {
	client *redis.Client
	log    *slog.Logger
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a Redis-backed Locker.
func NewRedisLocker(client *redis.Client, log *slog.Logger) *RedisLocker {
	if log == nil {
		log = slog.Default()
	}

	return &RedisLocker{
		client: client,
		log:    log,
	}
}

// Acquire takes the per-user lock or returns ErrSessionBusy when another
// interaction already holds it.
func (l *RedisLocker) Acquire(ctx context.Context, userID string) error {
	key := fmt.Sprintf(lockKeyPattern, userID)

	acquired, err := l.client.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		l.log.Error("failed to acquire session lock", "user_id", userID, "error", err)
		return err
	}
	if !acquired {
		l.log.Warn("session lock already held", "user_id", userID)
		return ErrSessionBusy
	}

	return nil
}

// Release frees the per-user lock.
func (l *RedisLocker) Release(ctx context.Context, userID string) {
	key := fmt.Sprintf(lockKeyPattern, userID)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		l.log.Error("failed to release session lock", "user_id", userID, "error", err)
	}
}
