package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPattern  = "kenpo:session:%s"
	sessionScanPattern = "kenpo:session:*"
)

// RedisStore persists wizard sessions as one Redis hash per user.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore initializes a Redis-backed Store with the given inactivity TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisStore {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Start creates or overwrites the session hash and arms its TTL.
func (s *RedisStore) Start(ctx context.Context, userID string) (*Session, error) {
	key := redisSessionKey(userID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "user_id", userID)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Error("failed to start session", "user_id", userID, "error", err)
		return nil, err
	}

	return &Session{UserID: userID}, nil
}

// Find checks existence and renews the TTL in a single EXPIRE command, so
// a concurrent expiry cannot be observed between the check and the renew.
func (s *RedisStore) Find(ctx context.Context, userID string) (*Session, error) {
	key := redisSessionKey(userID)

	alive, err := s.client.Expire(ctx, key, s.ttl).Result()
	if err != nil {
		s.log.Error("failed to touch session", "user_id", userID, "error", err)
		return nil, err
	}
	if !alive {
		return nil, ErrSessionNotFound
	}

	return &Session{UserID: userID}, nil
}

// Save upserts one field. The TTL is deliberately left alone; Find is the
// only operation that renews it.
func (s *RedisStore) Save(ctx context.Context, sess *Session, field, value string) error {
	key := redisSessionKey(sess.UserID)
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		s.log.Error("failed to save session field", "user_id", sess.UserID, "field", field, "error", err)
		return err
	}
	return nil
}

// Get returns one field value or ErrFieldNotFound.
func (s *RedisStore) Get(ctx context.Context, sess *Session, field string) (string, error) {
	key := redisSessionKey(sess.UserID)

	value, err := s.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrFieldNotFound
		}
		s.log.Error("failed to get session field", "user_id", sess.UserID, "field", field, "error", err)
		return "", err
	}

	return value, nil
}

// All returns every stored field for the session.
func (s *RedisStore) All(ctx context.Context, sess *Session) (map[string]string, error) {
	key := redisSessionKey(sess.UserID)

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		s.log.Error("failed to get session fields", "user_id", sess.UserID, "error", err)
		return nil, err
	}

	return fields, nil
}

// Clear deletes the session hash. Deleting an absent key is a no-op.
func (s *RedisStore) Clear(ctx context.Context, sess *Session) error {
	key := redisSessionKey(sess.UserID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear session", "user_id", sess.UserID, "error", err)
		return err
	}
	return nil
}

// Count returns the number of live sessions by scanning session keys.
// Used by the metrics sampler only.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, sessionScanPattern, 100).Result()
		if err != nil {
			s.log.Error("failed to scan sessions", "error", err)
			return 0, err
		}

		total += len(keys)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return total, nil
}

func redisSessionKey(userID string) string {
	return fmt.Sprintf(sessionKeyPattern, userID)
}
