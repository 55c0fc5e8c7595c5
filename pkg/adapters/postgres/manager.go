// Package postgres provides a pool manager for single PostgreSQL
// connections backed by pgx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
)

// detachTimeout bounds the connection teardown triggered by Detach, which
// has no context of its own.
const detachTimeout = 5 * time.Second

var errConnClosed = errors.New("postgres: connection is closed")

// Manager creates and validates *pgx.Conn objects for a pool.
type Manager struct {
	config *pgx.ConnConfig
	logger *zap.Logger
}

var (
	_ pool.Manager[*pgx.Conn]  = (*Manager)(nil)
	_ pool.Detacher[*pgx.Conn] = (*Manager)(nil)
)

// NewManager parses the DSN once and reuses the resulting config for every
// connection.
func NewManager(dsn string, logger *zap.Logger) (*Manager, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		config: config,
		logger: logger.With(zap.String("component", "postgres_manager")),
	}, nil
}

// Create dials a fresh connection.
func (m *Manager) Create(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, m.config)
	if err != nil {
		m.logger.Debug("connect failed", zap.Error(err))
		return nil, err
	}
	return conn, nil
}

// Recycle pings the connection; a dead connection is closed and reported.
func (m *Manager) Recycle(ctx context.Context, conn **pgx.Conn, metrics *pool.Metrics) error {
	c := *conn
	if c.IsClosed() {
		return errConnClosed
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close(ctx)
		return err
	}
	return nil
}

// Detach closes a connection that is leaving the pool.
func (m *Manager) Detach(conn **pgx.Conn) {
	c := *conn
	if c == nil || c.IsClosed() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()
	if err := c.Close(ctx); err != nil {
		m.logger.Debug("close failed", zap.Error(err))
	}
}
