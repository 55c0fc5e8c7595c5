// Package mysql provides a pool manager for raw MySQL driver connections.
// A driver.Conn is not safe for concurrent use, so each one is wrapped in a
// syncpool.Wrapper and every interaction goes through Interact. This is the
// reference adapter for pooling blocking, single-threaded clients.
package mysql

import (
	"context"
	"database/sql/driver"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
	"github.com/ajitpratap0/repool/pkg/runtime"
	"github.com/ajitpratap0/repool/pkg/syncpool"
)

// Conn is the pooled payload: a wrapped raw MySQL connection.
type Conn = *syncpool.Wrapper[driver.Conn]

// Manager creates and validates wrapped MySQL connections for a pool.
type Manager struct {
	connector driver.Connector
	rt        runtime.Runtime
	logger    *zap.Logger
}

var (
	_ pool.Manager[Conn]  = (*Manager)(nil)
	_ pool.Detacher[Conn] = (*Manager)(nil)
)

// NewManager parses the DSN once and reuses the resulting connector.
func NewManager(dsn string, rt runtime.Runtime, logger *zap.Logger) (*Manager, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		connector: connector,
		rt:        rt,
		logger:    logger.With(zap.String("component", "mysql_manager")),
	}, nil
}

// Create dials a raw connection off the caller's goroutine and wraps it.
func (m *Manager) Create(ctx context.Context) (Conn, error) {
	wrapper, err := syncpool.New(ctx, m.rt, func() (driver.Conn, error) {
		return m.connector.Connect(ctx)
	})
	if err != nil {
		m.logger.Debug("connect failed", zap.Error(err))
		return nil, err
	}
	return wrapper, nil
}

// Recycle pings the connection through the wrapper; a dead connection is
// closed and reported.
func (m *Manager) Recycle(ctx context.Context, conn *Conn, metrics *pool.Metrics) error {
	w := *conn
	if w.Closed() {
		return driver.ErrBadConn
	}
	err := w.Interact(ctx, func(c *driver.Conn) error {
		if pinger, ok := (*c).(driver.Pinger); ok {
			return pinger.Ping(ctx)
		}
		return nil
	})
	if err != nil {
		m.Detach(conn)
		return err
	}
	return nil
}

// Detach closes the wrapped connection when it leaves the pool.
func (m *Manager) Detach(conn *Conn) {
	(*conn).Close(func(c *driver.Conn) {
		if *c != nil {
			if err := (*c).Close(); err != nil {
				m.logger.Debug("close failed", zap.Error(err))
			}
		}
	})
}
