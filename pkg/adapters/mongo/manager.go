// Package mongo provides a pool manager for MongoDB clients.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
)

const detachTimeout = 5 * time.Second

// Manager creates and validates *mongo.Client objects for a pool. The
// driver's own per-client connection pool is pinned to a single connection
// so that the generic pool is the one place capacity is decided.
type Manager struct {
	uri    string
	logger *zap.Logger
}

var (
	_ pool.Manager[*mongo.Client]  = (*Manager)(nil)
	_ pool.Detacher[*mongo.Client] = (*Manager)(nil)
)

// NewManager configures a manager for the given connection URI.
func NewManager(uri string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		uri:    uri,
		logger: logger.With(zap.String("component", "mongo_manager")),
	}
}

// Create connects a client and verifies it can reach the server.
func (m *Manager) Create(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(m.uri).SetMaxPoolSize(1)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		m.logger.Debug("ping on create failed", zap.Error(err))
		return nil, err
	}
	return client, nil
}

// Recycle pings the client; a dead client is disconnected and reported.
func (m *Manager) Recycle(ctx context.Context, client **mongo.Client, metrics *pool.Metrics) error {
	if err := (*client).Ping(ctx, nil); err != nil {
		_ = (*client).Disconnect(ctx)
		return err
	}
	return nil
}

// Detach disconnects a client that is leaving the pool.
func (m *Manager) Detach(client **mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()
	if err := (*client).Disconnect(ctx); err != nil {
		m.logger.Debug("disconnect failed", zap.Error(err))
	}
}
