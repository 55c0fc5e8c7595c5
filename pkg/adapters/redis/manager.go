// Package redis provides a pool manager for Redis clients. Each pooled
// object is its own *redis.Client with internal pooling disabled down to a
// single connection, so the generic pool controls concurrency.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
)

// Manager creates and validates *redis.Client objects for a pool.
type Manager struct {
	options *redis.Options
	logger  *zap.Logger
}

var (
	_ pool.Manager[*redis.Client]  = (*Manager)(nil)
	_ pool.Detacher[*redis.Client] = (*Manager)(nil)
)

// NewManager copies the options and pins the per-client connection count to
// one; the surrounding pool is the place where capacity is configured.
func NewManager(options *redis.Options, logger *zap.Logger) *Manager {
	opts := *options
	opts.PoolSize = 1
	opts.MinIdleConns = 0
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		options: &opts,
		logger:  logger.With(zap.String("component", "redis_manager")),
	}
}

// Create builds a client and verifies it can reach the server.
func (m *Manager) Create(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(m.options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		m.logger.Debug("ping on create failed", zap.Error(err))
		return nil, err
	}
	return client, nil
}

// Recycle pings the client; a dead client is closed and reported.
func (m *Manager) Recycle(ctx context.Context, client **redis.Client, metrics *pool.Metrics) error {
	if err := (*client).Ping(ctx).Err(); err != nil {
		_ = (*client).Close()
		return err
	}
	return nil
}

// Detach closes a client that is leaving the pool.
func (m *Manager) Detach(client **redis.Client) {
	if err := (*client).Close(); err != nil {
		m.logger.Debug("close failed", zap.Error(err))
	}
}
