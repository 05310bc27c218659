package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		return "", mapRedisErr(err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return mapRedisErr(s.client.Set(ctx, s.prefix+key, value, 0).Err())
}

// SetMany usa MULTI/EXEC, então as chaves mudam juntas.
func (s *RedisStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	return mapRedisErr(err)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func mapRedisErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return ErrKeyNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return err
}

var _ Store = (*RedisStore)(nil)
