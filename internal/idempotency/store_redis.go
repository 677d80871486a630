package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var pending = []byte(`{"done":false}`)

func (s *RedisStore) Begin(ctx context.Context, key string, ttl time.Duration) (Record, bool, error) {
	ok, err := s.client.SetNX(ctx, redisKey(key), pending, ttl).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if ok {
		return Record{}, true, nil
	}

	data, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as in flight
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("redis get failed: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal record failed: %w", err)
	}
	return rec, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	rec.Done = true
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record failed: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func redisKey(key string) string {
	return "idem:" + key
}
