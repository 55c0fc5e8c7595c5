// Package amqp provides a pool manager for AMQP 0-9-1 connections
// (RabbitMQ). Channels should be opened per use from the pooled connection;
// only the connection itself is pooled.
package amqp

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
)

// Manager creates and validates *amqp.Connection objects for a pool.
type Manager struct {
	url    string
	config amqp.Config
	logger *zap.Logger
}

var (
	_ pool.Manager[*amqp.Connection]  = (*Manager)(nil)
	_ pool.Detacher[*amqp.Connection] = (*Manager)(nil)
)

// NewManager validates the URL up front so misconfiguration fails at build
// time rather than on the first checkout.
func NewManager(url string, config amqp.Config, logger *zap.Logger) (*Manager, error) {
	if _, err := amqp.ParseURI(url); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		url:    url,
		config: config,
		logger: logger.With(zap.String("component", "amqp_manager")),
	}, nil
}

// Create dials the broker. The client library dials synchronously; use
// Config.Dial to bound the attempt.
func (m *Manager) Create(ctx context.Context) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(m.url, m.config)
	if err != nil {
		m.logger.Debug("dial failed", zap.Error(err))
		return nil, err
	}
	return conn, nil
}

// Recycle rejects connections the broker has closed underneath us. The
// amqp library surfaces broker-side closure through IsClosed, so no
// round-trip is needed.
func (m *Manager) Recycle(ctx context.Context, conn **amqp.Connection, metrics *pool.Metrics) error {
	if (*conn).IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

// Detach closes a connection that is leaving the pool.
func (m *Manager) Detach(conn **amqp.Connection) {
	c := *conn
	if c == nil || c.IsClosed() {
		return
	}
	if err := c.Close(); err != nil {
		m.logger.Debug("close failed", zap.Error(err))
	}
}
