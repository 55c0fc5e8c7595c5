// Package kafka provides a pool manager for sarama clients. A pooled
// sarama.Client carries the broker connections and metadata for one
// consumer or producer; recycling refreshes the metadata so stale brokers
// are noticed at checkout instead of mid-request.
package kafka

import (
	"context"
	"errors"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ajitpratap0/repool/pkg/pool"
)

var errClientClosed = errors.New("kafka: client is closed")

// Manager creates and validates sarama.Client objects for a pool.
type Manager struct {
	brokers []string
	config  *sarama.Config
	logger  *zap.Logger
}

var (
	_ pool.Manager[sarama.Client]  = (*Manager)(nil)
	_ pool.Detacher[sarama.Client] = (*Manager)(nil)
)

// NewManager configures a manager for the given brokers. A nil config gets
// sarama defaults.
func NewManager(brokers []string, config *sarama.Config, logger *zap.Logger) *Manager {
	if config == nil {
		config = sarama.NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		brokers: brokers,
		config:  config,
		logger:  logger.With(zap.String("component", "kafka_manager")),
	}
}

// Create dials the cluster. sarama dials synchronously and does not take a
// context; use the config's DialTimeout to bound it.
func (m *Manager) Create(ctx context.Context) (sarama.Client, error) {
	client, err := sarama.NewClient(m.brokers, m.config)
	if err != nil {
		m.logger.Debug("client creation failed", zap.Error(err))
		return nil, err
	}
	return client, nil
}

// Recycle refreshes cluster metadata; a closed or unreachable client is
// torn down and reported.
func (m *Manager) Recycle(ctx context.Context, client *sarama.Client, metrics *pool.Metrics) error {
	c := *client
	if c.Closed() {
		return errClientClosed
	}
	if err := c.RefreshMetadata(); err != nil {
		_ = c.Close()
		return err
	}
	return nil
}

// Detach closes a client that is leaving the pool.
func (m *Manager) Detach(client *sarama.Client) {
	c := *client
	if c == nil || c.Closed() {
		return
	}
	if err := c.Close(); err != nil {
		m.logger.Debug("close failed", zap.Error(err))
	}
}
