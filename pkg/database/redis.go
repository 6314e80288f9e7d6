package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	"redis-copilot-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CommandRunner executes one raw command against a user's Redis database.
// The concrete implementation is an already-pooled go-redis client; tests
// substitute fakes.
type CommandRunner interface {
	RunCommand(ctx context.Context, args ...interface{}) (interface{}, error)
}

type redisRunner struct {
	client *redis.Client
}

func (r *redisRunner) RunCommand(ctx context.Context, args ...interface{}) (interface{}, error) {
	return r.client.Do(ctx, args...).Result()
}

// RedisManager hands out one client per stored database. go-redis pools
// connections internally, so a client is created once per database id and
// shared across turns; the handle a turn receives is its own.
type RedisManager struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*redis.Client
}

func NewRedisManager() *RedisManager {
	return &RedisManager{
		clients: make(map[uuid.UUID]*redis.Client),
	}
}

func (m *RedisManager) Runner(ctx context.Context, db *entity.Database) (CommandRunner, error) {
	m.mu.Lock()
	client, ok := m.clients[db.Id]
	if !ok {
		opts := &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", db.Host, db.Port),
			Username: db.Username,
			Password: db.Password,
		}
		if db.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client = redis.NewClient(opts)
		m.clients[db.Id] = client
	}
	m.mu.Unlock()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach database %s: %w", db.Id, err)
	}
	return &redisRunner{client: client}, nil
}

// Evict drops the cached client for a removed database.
func (m *RedisManager) Evict(databaseId uuid.UUID) {
	m.mu.Lock()
	if client, ok := m.clients[databaseId]; ok {
		delete(m.clients, databaseId)
		_ = client.Close()
	}
	m.mu.Unlock()
}
