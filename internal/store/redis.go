package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Redis persists records in a Redis database, one key per record.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Redis{rdb: redis.NewClient(opts)}, nil
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.rdb.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *Redis) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	raw, err := s.rdb.MGet(ctx, keys...).Result()

	if err != nil {
		return nil, err
	}

	values := make([][]byte, 0, len(raw))

	for _, item := range raw {
		// MGet reports missing keys as nil entries
		if item == nil {
			continue
		}

		value, ok := item.(string)

		if !ok {
			return nil, fmt.Errorf("unexpected value type %T in MGET reply", item)
		}

		values = append(values, []byte(value))
	}

	return values, nil
}

func (s *Redis) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string

	iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	// SCAN order is unspecified; sort so listings are deterministic
	sort.Strings(keys)

	return s.MGet(ctx, keys...)
}

const maxUpdateRetries = 16

// Update runs fn inside an optimistic WATCH transaction, retrying when a
// concurrent writer touches the key between the read and the write.
func (s *Redis) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()

		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := fn(current)

		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})

		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrUpdateConflict
}

func (s *Redis) Close() error {
	return s.rdb.Close()
}
