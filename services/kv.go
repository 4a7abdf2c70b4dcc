package services

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrSlotNotFound is returned when a slot has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// KV is the string-slot store behind the quota counter, daily tip, theme
// preference and weather snapshot. Values are small JSON blobs or plain
// strings; last write wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// RedisKV backs slots with Redis.
type RedisKV struct {
	RDB *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{RDB: rdb}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.RDB.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrSlotNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.RDB.Set(ctx, key, value, 0).Err()
}

// MemoryKV keeps slots in-process. Used when REDIS_ADDR is not configured
// and by tests.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.slots[key]
	if !ok {
		return "", ErrSlotNotFound
	}
	return val, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}
