package consumer

import (
	"context"
	"sync"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bxt04/studentpipe/internal/broker"
	"github.com/bxt04/studentpipe/internal/pkg/apperrors"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// State is the lifecycle state of a pipeline stage
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

// String renders the state for logs and the stats endpoint
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Decision is the closed set of acknowledgment outcomes a handler can
// return. Business validation failures are data, not errors: handlers route
// them to the error queue themselves and return Ack.
type Decision int

const (
	// Ack removes the message from the input queue
	Ack Decision = iota
	// Retry redelivers the message, bounded by the stage's attempt limit.
	// Appropriate only for transient failures such as store connectivity.
	Retry
	// Drop routes the message to the error queue and removes it from the
	// normal flow. For deterministic failures that would fail identically
	// on every redelivery.
	Drop
)

// Handler runs the stage's business logic for one message body
type Handler interface {
	Handle(ctx context.Context, body []byte) (Decision, error)
}

// Publisher is the subset of broker.Publisher a stage needs for routing
type Publisher interface {
	PublishValidated(ctx context.Context, message any) error
	PublishTransformed(ctx context.Context, message any) error
	PublishError(ctx context.Context, message any) error
	PublishBody(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error
}

// attemptHeader carries the redelivery count across republishes so it
// survives a broker restart, which a plain nack-requeue would not.
const attemptHeader = "x-attempt"

// Stage is a message-driven processing loop bound to one input queue.
// Each stage runs as its own goroutine; within a stage messages are handled
// strictly one at a time, acknowledged in processing order.
type Stage struct {
	name        string
	queue       string
	conn        *broker.Connection
	pub         Publisher
	handler     Handler
	prefetch    int
	maxAttempts int

	state atomic.Int32
	stats Stats

	ch       *amqp.Channel
	done     chan struct{}
	stopOnce sync.Once
}

// NewStage wires a stage to its input queue and handler
func NewStage(name, queue string, conn *broker.Connection, pub Publisher, handler Handler, prefetch, maxAttempts int) *Stage {
	return &Stage{
		name:        name,
		queue:       queue,
		conn:        conn,
		pub:         pub,
		handler:     handler,
		prefetch:    prefetch,
		maxAttempts: maxAttempts,
		done:        make(chan struct{}),
	}
}

// State returns the current lifecycle state
func (s *Stage) State() State {
	return State(s.state.Load())
}

// Name returns the stage name
func (s *Stage) Name() string {
	return s.name
}

// Stats returns a snapshot of the stage counters
func (s *Stage) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// Start binds the stage to its queue and launches the consume loop.
// The prefetch count is the sole backpressure mechanism: once that many
// messages are unacknowledged the broker withholds further delivery.
func (s *Stage) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return apperrors.ErrStageAlreadyStarted
	}

	ch, err := s.conn.Channel()
	if err != nil {
		s.state.Store(int32(StateStopped))
		return err
	}
	s.ch = ch

	if err := ch.Qos(s.prefetch, 0, false); err != nil {
		_ = ch.Close()
		s.state.Store(int32(StateStopped))
		return err
	}

	deliveries, err := ch.Consume(s.queue, s.name, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		s.state.Store(int32(StateStopped))
		return err
	}

	logger.Info().
		Str("stage", s.name).
		Str("queue", s.queue).
		Int("prefetch", s.prefetch).
		Msg("Stage started, waiting for messages")

	go s.loop(ctx, deliveries)
	return nil
}

// loop handles deliveries sequentially until the context is cancelled or
// the delivery channel closes.
func (s *Stage) loop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer func() {
		s.state.Store(int32(StateStopped))
		close(s.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			s.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery runs the handler for one message and applies its decision
func (s *Stage) handleDelivery(ctx context.Context, d amqp.Delivery) {
	s.stats.recordStart()

	decision, err := s.handler.Handle(ctx, d.Body)

	switch decision {
	case Ack:
		if ackErr := d.Ack(false); ackErr != nil {
			logger.Error().Err(ackErr).Str("stage", s.name).Msg("Failed to ack message")
			s.stats.recordFailure()
			return
		}
		s.stats.recordSuccess()

	case Retry:
		s.stats.recordFailure()
		s.retry(ctx, d, err)

	case Drop:
		s.stats.recordFailure()
		s.drop(ctx, d, err)
	}
}

// retry republishes the message to the stage's own queue with the attempt
// header incremented. Once the attempt limit is reached the message is
// routed to the error queue instead, so a transient failure that turns out
// to be permanent cannot circulate forever.
func (s *Stage) retry(ctx context.Context, d amqp.Delivery, cause error) {
	attempt := attemptCount(d.Headers) + 1

	if attempt >= s.maxAttempts {
		logger.Warn().
			Err(cause).
			Str("stage", s.name).
			Int("attempts", attempt).
			Msg("Retry limit reached, routing message to error queue")
		s.drop(ctx, d, cause)
		return
	}

	headers := amqp.Table{attemptHeader: int64(attempt)}
	if err := s.pub.PublishBody(ctx, s.queue, d.Body, headers); err != nil {
		// Republish failed, fall back to a broker-side requeue. The
		// attempt count is lost but the message is not.
		logger.Error().Err(err).Str("stage", s.name).Msg("Failed to republish for retry, requeueing")
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.Error().Err(nackErr).Str("stage", s.name).Msg("Failed to nack message")
		}
		return
	}

	logger.Warn().
		Err(cause).
		Str("stage", s.name).
		Int("attempt", attempt).
		Msg("Transient failure, message scheduled for retry")

	if ackErr := d.Ack(false); ackErr != nil {
		logger.Error().Err(ackErr).Str("stage", s.name).Msg("Failed to ack retried message")
	}
}

// drop forwards the original body to the error queue and removes the
// message from the normal flow with a no-requeue nack.
func (s *Stage) drop(ctx context.Context, d amqp.Delivery, cause error) {
	headers := amqp.Table{"x-failed-stage": s.name}
	if cause != nil {
		headers["x-failure"] = cause.Error()
	}

	if err := s.pub.PublishBody(ctx, broker.QueueError, d.Body, headers); err != nil {
		// Could not reach the error queue either; requeue and let a later
		// delivery try again rather than losing the message.
		logger.Error().Err(err).Str("stage", s.name).Msg("Failed to route message to error queue, requeueing")
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.Error().Err(nackErr).Str("stage", s.name).Msg("Failed to nack message")
		}
		return
	}

	logger.Warn().
		Err(cause).
		Str("stage", s.name).
		Msg("Terminal failure, message routed to error queue")

	if nackErr := d.Nack(false, false); nackErr != nil {
		logger.Error().Err(nackErr).Str("stage", s.name).Msg("Failed to nack dropped message")
	}
}

// Stop drains the stage: no more deliveries are accepted, the in-flight
// message (if any) finishes, then the channel closes.
func (s *Stage) Stop() error {
	if !s.state.CompareAndSwap(int32(StateRunning), int32(StateDraining)) {
		return apperrors.ErrStageNotRunning
	}

	logger.Info().Str("stage", s.name).Msg("Stopping stage")

	s.stopOnce.Do(func() {
		// Cancelling the consumer closes the delivery channel once the
		// in-flight message has been handled.
		if err := s.ch.Cancel(s.name, false); err != nil {
			logger.Error().Err(err).Str("stage", s.name).Msg("Failed to cancel consumer")
		}
	})

	<-s.done

	if err := s.ch.Close(); err != nil {
		logger.Error().Err(err).Str("stage", s.name).Msg("Failed to close stage channel")
	}

	snap := s.stats.Snapshot()
	logger.Info().
		Str("stage", s.name).
		Int64("processed", snap.Processed).
		Int64("succeeded", snap.Succeeded).
		Int64("failed", snap.Failed).
		Float64("rate", snap.Rate).
		Msg("Stage stopped")

	return nil
}

// Wait blocks until the stage transitions out of Running
func (s *Stage) Wait() {
	<-s.done
}

// attemptCount reads the redelivery counter from the message headers
func attemptCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[attemptHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}
