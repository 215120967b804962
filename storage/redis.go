package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session slots as Redis strings.
//
// With a positive ttl every write sets an expiry; with sliding enabled reads
// also push the expiry forward. A zero ttl keeps keys until removed.
type RedisStore struct {
	redis   redis.UniversalClient
	prefix  string
	ttl     time.Duration
	sliding bool
}

// NewRedisStore creates a [RedisStore]. prefix namespaces the Redis keys
// ("<prefix>:<slot key>") and may be empty.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration, sliding bool) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		redis:   client,
		prefix:  prefix,
		ttl:     ttl,
		sliding: sliding && ttl > 0,
	}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get reads a string slot.
//
//	Performance: 1 Redis GET (GETEX when sliding).
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		val string
		err error
	)
	if s.sliding {
		val, err = s.redis.GetEx(ctx, s.key(key), s.ttl).Result()
	} else {
		val, err = s.redis.Get(ctx, s.key(key)).Result()
	}
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return val, true, nil
}

func (s *RedisStore) GetObject(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := decodeObject(key, raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) SetObject(ctx context.Context, key string, value any) error {
	raw, err := encodeObject(key, value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// Remove deletes keys with a single DEL.
func (s *RedisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.key(key)
	}
	if err := s.redis.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Apply writes all mutations in one MULTI/EXEC transaction.
//
//	Performance: 1 round-trip.
func (s *RedisStore) Apply(ctx context.Context, mutations ...Mutation) error {
	if len(mutations) == 0 {
		return nil
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			if m.Delete {
				pipe.Del(ctx, s.key(m.Key))
				continue
			}
			pipe.Set(ctx, s.key(m.Key), m.Value, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}
