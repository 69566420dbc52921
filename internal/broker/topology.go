package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// Exchange and queue names. Routing keys equal the queue names on a direct
// exchange, so each publish lands in exactly one queue.
const (
	Exchange = "student.exchange"

	QueueRaw         = "student.raw"
	QueueValidated   = "student.validated"
	QueueTransformed = "student.transformed"
	QueueError       = "student.error"
)

// Retention is enforced by the broker, not the pipeline
const (
	normalQueueTTL = 24 * 60 * 60 * 1000     // 24 hours, milliseconds
	errorQueueTTL  = 7 * 24 * 60 * 60 * 1000 // 7 days
	maxQueueLength = 100_000
)

// AllQueues lists every queue in declaration order
var AllQueues = []string{QueueRaw, QueueValidated, QueueTransformed, QueueError}

// DeclareTopology declares the exchange, the four durable queues, and their
// bindings. Declaration is idempotent; every process entrypoint calls this
// at startup.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}

	normalArgs := amqp.Table{
		"x-message-ttl": int64(normalQueueTTL),
		"x-max-length":  int64(maxQueueLength),
	}
	errorArgs := amqp.Table{
		"x-message-ttl": int64(errorQueueTTL),
		"x-max-length":  int64(maxQueueLength),
	}

	for _, queue := range AllQueues {
		args := normalArgs
		if queue == QueueError {
			args = errorArgs
		}

		if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, queue, Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queue, err)
		}

		logger.Info().Str("queue", queue).Msg("Queue declared and bound")
	}

	return nil
}

// PurgeAll drains every queue. Destructive; used by the admin tool only.
func PurgeAll(ch *amqp.Channel) error {
	for _, queue := range AllQueues {
		purged, err := ch.QueuePurge(queue, false)
		if err != nil {
			return fmt.Errorf("failed to purge queue %s: %w", queue, err)
		}
		logger.Warn().Str("queue", queue).Int("messages", purged).Msg("Queue purged")
	}
	return nil
}

// DeleteAll removes every queue and the exchange. Destructive; used by the
// admin tool only.
func DeleteAll(ch *amqp.Channel) error {
	for _, queue := range AllQueues {
		if _, err := ch.QueueDelete(queue, false, false, false); err != nil {
			return fmt.Errorf("failed to delete queue %s: %w", queue, err)
		}
	}
	if err := ch.ExchangeDelete(Exchange, false, false); err != nil {
		return fmt.Errorf("failed to delete exchange %s: %w", Exchange, err)
	}
	logger.Warn().Msg("All queues and exchange deleted")
	return nil
}

// QueueDepths returns the current message count of every queue
func QueueDepths(ch *amqp.Channel) (map[string]int, error) {
	depths := make(map[string]int, len(AllQueues))
	for _, queue := range AllQueues {
		state, err := ch.QueueDeclarePassive(queue, true, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect queue %s: %w", queue, err)
		}
		depths[queue] = state.Messages
	}
	return depths, nil
}
