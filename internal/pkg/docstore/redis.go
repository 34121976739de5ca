package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxOptimisticRetries = 5

// RedisStore keeps each document as a JSON string under prefix+path.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(path string) string {
	return s.prefix + path
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, path string, dst interface{}) error {
	raw, err := s.client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("redis get %q: %w", path, err)
	}
	return decode(raw, dst)
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, path string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(path), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", path, err)
	}
	return nil
}

// Update implements Store using WATCH/MULTI so concurrent merges do not drop fields.
func (s *RedisStore) Update(ctx context.Context, path string, patch map[string]interface{}) error {
	key := s.key(path)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		merged, err := mergePatch(current, patch)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxOptimisticRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotObject) {
			return fmt.Errorf("redis update %q: %w", path, err)
		}
		return err
	}
	return fmt.Errorf("redis update %q: too many concurrent writers", path)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
