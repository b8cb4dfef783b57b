package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisContextCacheStore shares the redeem-to-fetch handoff across
// instances. GETDEL keeps the one-shot guarantee atomic on the server.
type RedisContextCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisContextCacheStore(client redis.UniversalClient, prefix string) *RedisContextCacheStore {
	if prefix == "" {
		prefix = "wbctx:grace"
	}
	return &RedisContextCacheStore{client: client, prefix: prefix}
}

func (s *RedisContextCacheStore) key(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

func (s *RedisContextCacheStore) PutOnce(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return s.client.Set(ctx, s.key(id), data, ttl).Err()
}

func (s *RedisContextCacheStore) TakeOnce(ctx context.Context, id string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}
