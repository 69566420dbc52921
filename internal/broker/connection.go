package broker

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bxt04/studentpipe/internal/config"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// Connection is the single shared broker handle per process. Channels are
// created per stage for isolation; the underlying TCP connection is shared.
type Connection struct {
	conn *amqp.Connection
}

// Dial opens the broker connection described by the configuration
func Dial(cfg *config.Config) (*Connection, error) {
	url := cfg.GetBrokerURL()

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 60 * time.Second,
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker at %s:%s: %w", cfg.Broker.Host, cfg.Broker.Port, err)
	}

	logger.Info().
		Str("host", cfg.Broker.Host).
		Str("port", cfg.Broker.Port).
		Msg("Broker connection established")

	return &Connection{conn: conn}, nil
}

// Channel opens a new channel on the shared connection
func (c *Connection) Channel() (*amqp.Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open broker channel: %w", err)
	}
	return ch, nil
}

// Close closes the underlying connection and all its channels
func (c *Connection) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close broker connection: %w", err)
	}
	logger.Info().Msg("Broker connection closed")
	return nil
}
