package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// RedisService stores JSON values in Redis
type RedisService struct {
	Client *redis.Client
	prefix string
}

// NewRedisService wraps client; every key is stored under prefix
func NewRedisService(client *redis.Client, prefix string) InterfaceRedisService {
	return &RedisService{Client: client, prefix: prefix}
}

// 1 Set stores value as JSON
func (s *RedisService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.prefix+key, jsonValue, expiration).Err()
}

// 2 Get decodes the JSON value of key into dest
func (s *RedisService) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.Client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(val, dest)
}

// 3 Delete removes keys
func (s *RedisService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	return s.Client.Del(ctx, prefixed...).Err()
}

// 4 Ping checks the connection
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
